// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package world contains the spatial primitives shared by the sign and
// region layers: block positions, 16-block chunk coordinates, and the
// host-facing chunk access surface.
package world

// ChunkSize is the horizontal edge length of a chunk in blocks.
const ChunkSize = 16

// Point is a block position in world coordinates.
type Point struct {
	X, Y, Z int
}

// ChunkKey identifies a chunk column.
type ChunkKey struct {
	CX, CZ int
}

// ChunkOf returns the chunk containing a block position.
func ChunkOf(p Point) ChunkKey {
	return ChunkKey{CX: floorDiv(p.X, ChunkSize), CZ: floorDiv(p.Z, ChunkSize)}
}

// Bounds is an axis-aligned block-coordinate box, inclusive on both ends.
type Bounds struct {
	Min, Max Point
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ChunkBox returns every chunk key overlapping the bounds, expanded by
// margin chunks in each horizontal direction. Keys are ordered CX-major
// for deterministic iteration.
func (b Bounds) ChunkBox(margin int) []ChunkKey {
	minCX := floorDiv(b.Min.X, ChunkSize) - margin
	maxCX := floorDiv(b.Max.X, ChunkSize) + margin
	minCZ := floorDiv(b.Min.Z, ChunkSize) - margin
	maxCZ := floorDiv(b.Max.Z, ChunkSize) + margin

	keys := make([]ChunkKey, 0, (maxCX-minCX+1)*(maxCZ-minCZ+1))
	for cx := minCX; cx <= maxCX; cx++ {
		for cz := minCZ; cz <= maxCZ; cz++ {
			keys = append(keys, ChunkKey{CX: cx, CZ: cz})
		}
	}
	return keys
}

// floorDiv rounds toward negative infinity so negative block coordinates
// land in the correct chunk.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
