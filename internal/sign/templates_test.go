// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/world"
)

func TestStripFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "[Plot]", "[Plot]"},
		{"single code", "§a[Plot]", "[Plot]"},
		{"codes throughout", "§l[Pl§oot]", "[Plot]"},
		{"trailing marker", "[Plot]§", "[Plot]"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFormat(tt.input))
		})
	}
}

func TestTemplatesMatches(t *testing.T) {
	tmpl := DefaultTemplates()

	assert.True(t, tmpl.Matches("[Plot]"))
	assert.True(t, tmpl.Matches("[plot]"))
	assert.True(t, tmpl.Matches("§a[Plot]"))
	assert.False(t, tmpl.Matches("[Shop]"))
	assert.False(t, tmpl.Matches(""))

	custom := Templates{Keyword: "[Sale]"}
	assert.True(t, custom.Matches("[Sale]"))
	assert.False(t, custom.Matches("[Plot]"))
}

func TestRenderSale(t *testing.T) {
	tmpl := DefaultTemplates()
	price := 150.5
	typ := "plot"
	r := region.New("plotA", world.Bounds{})
	r.Price = &price
	r.Type = &typ

	lines := tmpl.RenderSale(r)

	assert.Equal(t, "[Plot]", lines[0])
	assert.Equal(t, "plotA", lines[1])
	assert.Equal(t, "150.5", lines[2])
	assert.Equal(t, "plot", lines[3])
}

func TestRenderSaleWithoutOptionalFlags(t *testing.T) {
	tmpl := DefaultTemplates()
	r := region.New("plotA", world.Bounds{})

	lines := tmpl.RenderSale(r)

	assert.Equal(t, "", lines[2])
	assert.Equal(t, "", lines[3])
}

func TestRenderSold(t *testing.T) {
	tmpl := DefaultTemplates()
	r := region.New("plotA", world.Bounds{})

	lines := tmpl.RenderSold(r, "Alex")

	assert.Equal(t, "[Plot]", lines[0])
	assert.Equal(t, "plotA", lines[1])
	assert.Equal(t, "sold to", lines[2])
	assert.Equal(t, "Alex", lines[3])
}

func TestRenderLinePrefixes(t *testing.T) {
	tmpl := DefaultTemplates()
	tmpl.LinePrefixes = [world.SignLines]string{"§l", "", "§a", ""}
	r := region.New("plotA", world.Bounds{})

	lines := tmpl.RenderSold(r, "Alex")

	assert.Equal(t, "§l[Plot]", lines[0])
	assert.Equal(t, "plotA", lines[1])
	assert.Equal(t, "§asold to", lines[2])
	assert.True(t, tmpl.Matches(lines[0]))
}
