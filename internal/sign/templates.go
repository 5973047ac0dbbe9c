// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package sign turns physical sign interactions into sale protocol events
// and keeps every sign bound to a region in step with the region's sale
// state.
package sign

import (
	"strings"

	"github.com/signplot/signplot/internal/economy"
	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/world"
)

// DefaultKeyword is the sentinel on line 1 that marks a sale sign.
const DefaultKeyword = "[Plot]"

// formatMarker introduces a two-character decorative formatting code in
// sign text. StripFormat removes these before any comparison or parse.
const formatMarker = '§'

// Templates renders the canonical sign text for the two sale states. Each
// line template substitutes %region%, %price%, %type% and %buyer%, and is
// prefixed by the matching decorative prefix.
type Templates struct {
	// Keyword is the line-1 sentinel. Empty means DefaultKeyword.
	Keyword string

	// SellLines and SoldLines are the four line templates per state.
	SellLines [world.SignLines]string
	SoldLines [world.SignLines]string

	// LinePrefixes are decorative format strings prepended per line.
	LinePrefixes [world.SignLines]string
}

// DefaultTemplates returns the built-in sign text templates.
func DefaultTemplates() Templates {
	return Templates{
		Keyword:   DefaultKeyword,
		SellLines: [world.SignLines]string{"%keyword%", "%region%", "%price%", "%type%"},
		SoldLines: [world.SignLines]string{"%keyword%", "%region%", "sold to", "%buyer%"},
	}
}

// SentinelKeyword returns the effective line-1 sentinel.
func (t Templates) SentinelKeyword() string {
	if t.Keyword == "" {
		return DefaultKeyword
	}
	return t.Keyword
}

// Matches reports whether a sign's first line carries the sentinel,
// ignoring decorative formatting.
func (t Templates) Matches(line string) bool {
	return strings.EqualFold(StripFormat(line), t.SentinelKeyword())
}

// RenderSale returns the "for sale" lines for a region.
func (t Templates) RenderSale(r *region.Region) [world.SignLines]string {
	price := ""
	if r.Price != nil {
		price = economy.FormatAmount(*r.Price)
	}
	return t.render(t.SellLines,
		"%region%", r.ID,
		"%price%", price,
		"%type%", r.TypeLabel())
}

// RenderSold returns the "sold" lines for a region and its buyer.
func (t Templates) RenderSold(r *region.Region, buyerName string) [world.SignLines]string {
	return t.render(t.SoldLines, "%region%", r.ID, "%buyer%", buyerName)
}

func (t Templates) render(lines [world.SignLines]string, pairs ...string) [world.SignLines]string {
	pairs = append(pairs, "%keyword%", t.SentinelKeyword())
	var out [world.SignLines]string
	for i, line := range lines {
		for j := 0; j+1 < len(pairs); j += 2 {
			line = strings.ReplaceAll(line, pairs[j], pairs[j+1])
		}
		out[i] = t.LinePrefixes[i] + line
	}
	return out
}

// StripFormat removes decorative formatting codes (a marker character
// followed by one code character) from sign text.
func StripFormat(s string) string {
	if !strings.ContainsRune(s, formatMarker) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	skip := false
	for _, r := range s {
		if skip {
			skip = false
			continue
		}
		if r == formatMarker {
			skip = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
