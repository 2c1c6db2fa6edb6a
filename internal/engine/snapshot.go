package engine

import (
	"math"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
)

// Snapshot captures the machine state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Exact      core.Vec
	Position   core.Position
	Eaten      int
	Tiles      int
	Footprints []core.Position
	Effects    []catalog.EffectKind
	Closed     bool
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	kinds := make([]catalog.EffectKind, 0, len(m.effects.live))
	for _, e := range m.effects.list() {
		kinds = append(kinds, e.Kind)
	}
	return Snapshot{
		Tick:       m.tick,
		Exact:      m.exact,
		Position:   m.exact.Cell(),
		Eaten:      m.eaten,
		Tiles:      m.field.Len(),
		Footprints: m.trail.All(),
		Effects:    kinds,
		Closed:     m.closed,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (s *Snapshot) Hash() uint64 {
	h := s.Tick
	h = h*31 + math.Float64bits(s.Exact.X)
	h = h*31 + math.Float64bits(s.Exact.Y)
	h = h*31 + uint64(s.Eaten) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Tiles) //#nosec G115 -- hash computation
	for _, p := range s.Footprints {
		h = h*31 + uint64(int64(p.X)) //#nosec G115 -- hash computation
		h = h*31 + uint64(int64(p.Y)) //#nosec G115 -- hash computation
	}
	for _, k := range s.Effects {
		h = h*31 + uint64(k) //#nosec G115 -- hash computation
	}
	if s.Closed {
		h = h*31 + 1
	}
	return h
}
