// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package world

// SignLines is the number of text lines on a sign.
const SignLines = 4

// MaxLineLength is the widest text a sign line can carry. Region
// identifiers and type labels are capped to this so they stay readable.
const MaxLineLength = 15

// Sign is a sign block entity. The text lines are freely rewritten by the
// sale machinery; RegionTag is a persisted binding to a region identifier
// that survives text rewrites and, once set, is never overwritten.
type Sign struct {
	Pos       Point
	Lines     [SignLines]string
	RegionTag string
}

// SetLines replaces all four text lines.
func (s *Sign) SetLines(lines [SignLines]string) {
	s.Lines = lines
}

// TagRegion binds the sign to a region identifier. A sign already bound
// keeps its existing tag.
func (s *Sign) TagRegion(id string) {
	if s.RegionTag == "" {
		s.RegionTag = id
	}
}

// ChunkAccess is the host's block-entity iteration capability. Only loaded
// chunks are visible; a sign in an unloaded chunk is simply not returned.
type ChunkAccess interface {
	// IsLoaded reports whether the chunk is currently loaded.
	IsLoaded(k ChunkKey) bool

	// SignsIn returns the sign block entities in a loaded chunk.
	// Returns nil for unloaded chunks.
	SignsIn(k ChunkKey) []*Sign
}
