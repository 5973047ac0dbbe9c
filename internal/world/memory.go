// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package world

// MemoryWorld is an in-process ChunkAccess backed by plain maps. It stands
// in for the host game server in tests and in standalone mode. Accessed
// only from the game thread.
type MemoryWorld struct {
	loaded map[ChunkKey]bool
	signs  map[ChunkKey][]*Sign
}

// NewMemoryWorld creates an empty world with no loaded chunks.
func NewMemoryWorld() *MemoryWorld {
	return &MemoryWorld{
		loaded: map[ChunkKey]bool{},
		signs:  map[ChunkKey][]*Sign{},
	}
}

// Load marks a chunk as loaded.
func (w *MemoryWorld) Load(k ChunkKey) {
	w.loaded[k] = true
}

// Unload marks a chunk as unloaded. Its signs stay in place and become
// visible again on the next Load.
func (w *MemoryWorld) Unload(k ChunkKey) {
	delete(w.loaded, k)
}

// PlaceSign inserts a sign at its position, loading the containing chunk.
func (w *MemoryWorld) PlaceSign(s *Sign) {
	k := ChunkOf(s.Pos)
	w.loaded[k] = true
	w.signs[k] = append(w.signs[k], s)
}

// SignAt returns the sign at a position, or nil.
func (w *MemoryWorld) SignAt(p Point) *Sign {
	for _, s := range w.signs[ChunkOf(p)] {
		if s.Pos == p {
			return s
		}
	}
	return nil
}

// IsLoaded implements ChunkAccess.
func (w *MemoryWorld) IsLoaded(k ChunkKey) bool {
	return w.loaded[k]
}

// SignsIn implements ChunkAccess.
func (w *MemoryWorld) SignsIn(k ChunkKey) []*Sign {
	if !w.loaded[k] {
		return nil
	}
	return w.signs[k]
}
