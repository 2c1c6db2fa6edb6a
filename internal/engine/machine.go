// Package engine implements the game-state update step: movement, collision,
// tile consumption, timed effects and the footprint trail.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/field"
)

var (
	ErrInvalidSpeed        = errors.New("base speed must be positive")
	ErrInvalidHistoryLimit = errors.New("history limit must be at least 1")
)

// Options configures a Machine.
type Options struct {
	// BaseSpeed is the displacement per tick, in cells, of one held direction.
	BaseSpeed float64

	// HistoryLimit caps the footprint trail.
	HistoryLimit int

	// BlockBothAxesOnSolid blocks every move into a solid tile. When false,
	// only moves without a horizontal component are blocked.
	BlockBothAxesOnSolid bool

	// Footprints selects what the trail records.
	Footprints FootprintMode

	// Bounds confines the player. The zero Rect leaves the grid unbounded.
	Bounds core.Rect

	Clock  Clock       // Defaults to SystemClock
	Logger *log.Logger // Defaults to a discarding logger
}

// DefaultOptions returns options matching the default config at 60 ticks per second.
func DefaultOptions() Options {
	return Options{
		BaseSpeed:            8.0 / 60,
		HistoryLimit:         10,
		BlockBothAxesOnSolid: true,
		Footprints:           FootprintsConsumed,
	}
}

// Validate checks the options, returning an error wrapping a sentinel.
func (o Options) Validate() error {
	if !(o.BaseSpeed > 0) {
		return fmt.Errorf("engine: %v: %w", o.BaseSpeed, ErrInvalidSpeed)
	}
	if o.HistoryLimit < 1 {
		return fmt.Errorf("engine: %d: %w", o.HistoryLimit, ErrInvalidHistoryLimit)
	}
	if _, err := ParseFootprintMode(string(o.Footprints)); err != nil {
		return err
	}
	return nil
}

// Delta describes what one Step changed, for the renderer to apply.
type Delta struct {
	Position core.Position // Cell after the step
	Exact    core.Vec      // Sub-cell position after the step
	Moved    bool
	Blocked  bool // A move was attempted but refused

	Consumed *field.Tile    // Tile removed from the field, if any
	Acquired []ActiveEffect // Effects installed this step
	Expired  []catalog.EffectKind

	Footprint *core.Position // Position appended to the trail
	Evicted   *core.Position // Oldest trail entry dropped to make room

	Hazard bool // Player stands on, or just consumed, a dangerous tile
	Eaten  int  // Running count of eaten tiles
}

// Changed reports whether the step changed any state a renderer draws.
func (d Delta) Changed() bool {
	return d.Moved || d.Consumed != nil || len(d.Acquired) > 0 || len(d.Expired) > 0
}

// Machine owns the single player's state and advances it one tick at a time.
// It is not safe for concurrent use: ticks, field replacement and Close must
// be serialised by the caller.
type Machine struct {
	opts   Options
	clock  Clock
	logger *log.Logger

	field   field.Field
	exact   core.Vec
	effects *effectSet
	trail   *Footprints
	eaten   int
	tick    uint64
	closed  bool
}

// New creates a machine owning f, with the player at start.
func New(opts Options, f field.Field, start core.Vec) (*Machine, error) {
	if opts.Footprints == "" {
		opts.Footprints = FootprintsConsumed
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if f == nil {
		f = field.New()
	}

	m := &Machine{
		opts:    opts,
		clock:   opts.Clock,
		logger:  opts.Logger,
		field:   f,
		exact:   opts.Bounds.ClampVec(start),
		effects: newEffectSet(),
		trail:   NewFootprints(opts.HistoryLimit),
	}
	return m, nil
}

// Step advances the state by one tick given the held directions.
func (m *Machine) Step(intents core.IntentSet) Delta {
	if m.closed {
		return m.delta()
	}
	m.tick++

	// Expiry only ever happens here, at the tick boundary.
	expired := m.effects.drain(m.clock.Now())
	for _, k := range expired {
		m.logger.Debug("effect expired", "effect", k, "tick", m.tick)
	}

	d := m.delta()
	d.Expired = expired

	dx, dy := intents.Axis()
	if dx == 0 && dy == 0 {
		return d
	}

	speed := m.opts.BaseSpeed * m.effects.speedFactor()
	next := m.exact.Add(core.V(float64(dx), float64(dy)).Scale(speed))
	cell := next.Cell()

	if !m.opts.Bounds.Empty() && !m.opts.Bounds.Contains(cell) {
		d.Blocked = true
		return d
	}

	prev := m.exact.Cell()
	tile, found := m.field.At(cell)
	// Only entering a solid cell is refused, so a player left inside one can walk out.
	if found && cell != prev && m.blocks(tile, dx) {
		d.Blocked = true
		return d
	}

	m.exact = next
	d.Moved = true
	d.Position = cell
	d.Exact = next
	d.Hazard = found && tile.Type.Is(catalog.Dangerous)

	if found {
		m.interact(tile, &d)
	}

	if m.opts.Footprints == FootprintsVisited && cell != prev && !m.trail.Contains(cell) {
		m.pushFootprint(cell, &d)
	}

	d.Eaten = m.eaten
	return d
}

// blocks reports whether tile stops a move with horizontal component dx.
func (m *Machine) blocks(tile field.Tile, dx int) bool {
	if !tile.Type.Is(catalog.Solid) || m.effects.has(catalog.EffectFly) {
		return false
	}
	if m.opts.BlockBothAxesOnSolid {
		return true
	}
	return dx == 0
}

// interact applies the rules of the tile the player just entered.
func (m *Machine) interact(tile field.Tile, d *Delta) {
	t := tile.Type
	if !t.Consumable() {
		return
	}

	m.field.Remove(tile.Pos)
	d.Consumed = &tile

	if t.Is(catalog.Edible) {
		m.eaten++
		if m.opts.Footprints == FootprintsConsumed {
			m.pushFootprint(tile.Pos, d)
		}
		m.logger.Debug("ate tile", "tile", t.ID, "pos", tile.Pos, "eaten", m.eaten)
	}

	if t.Is(catalog.Equipable) {
		now := m.clock.Now()
		for _, kind := range t.Effects {
			e := m.effects.grant(kind, t.Amplifier, now.Add(t.Duration))
			d.Acquired = append(d.Acquired, e)
			m.logger.Debug("effect acquired", "effect", kind, "amplifier", e.Amplifier, "until", e.ExpiresAt)
		}
	}
}

func (m *Machine) pushFootprint(p core.Position, d *Delta) {
	pos := p
	d.Footprint = &pos
	if evicted, ok := m.trail.Push(p); ok {
		d.Evicted = &evicted
	}
}

func (m *Machine) delta() Delta {
	cell := m.exact.Cell()
	d := Delta{
		Position: cell,
		Exact:    m.exact,
		Eaten:    m.eaten,
	}
	if t, ok := m.field.At(cell); ok {
		d.Hazard = t.Type.Is(catalog.Dangerous)
	}
	return d
}

// ReplaceField swaps in a freshly generated field, taking ownership of f.
// Any tile under the player is cleared. Call between ticks.
func (m *Machine) ReplaceField(f field.Field) {
	if f == nil {
		f = field.New()
	}
	m.field = f
	if t, ok := m.field.Remove(m.exact.Cell()); ok {
		m.logger.Debug("cleared tile under player", "tile", t.Type.ID, "pos", t.Pos)
	}
	m.logger.Debug("field replaced", "tiles", f.Len())
}

// SetBounds confines the player to r, pulling it inside if needed.
func (m *Machine) SetBounds(r core.Rect) {
	m.opts.Bounds = r
	m.exact = r.ClampVec(m.exact)
}

// Close ends the session: pending expiries are dropped and later Steps are no-ops.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.effects.clear()
	m.logger.Debug("machine closed", "ticks", m.tick, "eaten", m.eaten)
}

// Closed reports whether Close has been called.
func (m *Machine) Closed() bool {
	return m.closed
}

// Position returns the player's cell.
func (m *Machine) Position() core.Position {
	return m.exact.Cell()
}

// Exact returns the player's sub-cell position.
func (m *Machine) Exact() core.Vec {
	return m.exact
}

// Field returns a copy of the obstacle field.
func (m *Machine) Field() field.Field {
	return m.field.Clone()
}

// TileAt returns the tile at p without copying the field.
func (m *Machine) TileAt(p core.Position) (field.Tile, bool) {
	return m.field.At(p)
}

// Tiles returns the field's tiles in row-major order.
func (m *Machine) Tiles() []field.Tile {
	return m.field.Tiles()
}

// Effects returns the active effects in kind order.
func (m *Machine) Effects() []ActiveEffect {
	return m.effects.list()
}

// HasEffect reports whether kind is active.
func (m *Machine) HasEffect(kind catalog.EffectKind) bool {
	return m.effects.has(kind)
}

// SpeedFactor returns the product of active speed-effect amplifiers.
func (m *Machine) SpeedFactor() float64 {
	return m.effects.speedFactor()
}

// Footprints returns the trail, oldest first.
func (m *Machine) Footprints() []core.Position {
	return m.trail.All()
}

// Eaten returns how many edible tiles have been consumed.
func (m *Machine) Eaten() int {
	return m.eaten
}

// Tick returns the number of Steps taken.
func (m *Machine) Tick() uint64 {
	return m.tick
}

// Options returns the machine's effective options.
func (m *Machine) Options() Options {
	return m.opts
}
