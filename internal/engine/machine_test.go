package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/field"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

var (
	right = core.Intents(core.DirRight)
	left  = core.Intents(core.DirLeft)
	down  = core.Intents(core.DirDown)
	none  = core.IntentSet(0)
)

func testOptions(clock Clock) Options {
	return Options{
		BaseSpeed:            1,
		HistoryLimit:         10,
		BlockBothAxesOnSolid: true,
		Footprints:           FootprintsConsumed,
		Clock:                clock,
	}
}

func newTestMachine(t *testing.T, opts Options, f field.Field, start core.Vec) *Machine {
	t.Helper()
	m, err := New(opts, f, start)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return m
}

func tileAt(id string, x, y int) field.Tile {
	return field.Tile{ID: id + "-tile", Pos: core.P(x, y), Type: catalog.MustLoad().Get(id)}
}

func boots(amplifier float64, d time.Duration) *catalog.TileType {
	return &catalog.TileType{
		ID:         "boots",
		Glyph:      'B',
		Properties: catalog.Equipable | catalog.Fast,
		Effects:    []catalog.EffectKind{catalog.EffectFast},
		Duration:   d,
		Amplifier:  amplifier,
		Weight:     1,
	}
}

func TestStepEmptyGrid(t *testing.T) {
	m := newTestMachine(t, testOptions(NewManualClock(t0)), field.New(), core.V(5, 5))

	d := m.Step(right)

	if !d.Moved || d.Blocked {
		t.Errorf("Moved/Blocked = %v/%v, expected true/false", d.Moved, d.Blocked)
	}
	if m.Position() != core.P(6, 5) {
		t.Errorf("Position() = %v, expected (6,5)", m.Position())
	}
	if m.Field().Len() != 0 {
		t.Errorf("field should stay empty, has %d tiles", m.Field().Len())
	}
	if len(m.Footprints()) != 0 {
		t.Errorf("history should stay empty, got %v", m.Footprints())
	}
}

func TestStepBlockedBySolid(t *testing.T) {
	f := field.Of(tileAt("oak", 6, 5))
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(5, 5))

	d := m.Step(right)

	if !d.Blocked || d.Moved {
		t.Errorf("Blocked/Moved = %v/%v, expected true/false", d.Blocked, d.Moved)
	}
	if m.Exact() != core.V(5, 5) {
		t.Errorf("Exact() = %v, expected unchanged (5,5)", m.Exact())
	}
	if m.Field().Len() != 1 {
		t.Error("solid tile should not be removed")
	}
}

func TestStepConsumesEdible(t *testing.T) {
	f := field.Of(tileAt("carrot", 6, 5), tileAt("oak", 0, 0))
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(5, 5))

	d := m.Step(right)

	if m.Position() != core.P(6, 5) {
		t.Fatalf("Position() = %v, expected (6,5)", m.Position())
	}
	if d.Consumed == nil || d.Consumed.Type.ID != "carrot" {
		t.Errorf("Consumed = %+v, expected carrot", d.Consumed)
	}
	if _, ok := m.TileAt(core.P(6, 5)); ok {
		t.Error("carrot should be removed from the field")
	}
	if m.Field().Len() != 1 {
		t.Errorf("only the carrot should be removed, %d tiles left", m.Field().Len())
	}
	fp := m.Footprints()
	if len(fp) != 1 || fp[0] != core.P(6, 5) {
		t.Errorf("Footprints() = %v, expected [(6,5)]", fp)
	}
	if d.Footprint == nil || *d.Footprint != core.P(6, 5) {
		t.Errorf("Delta.Footprint = %v", d.Footprint)
	}
	if m.Eaten() != 1 || d.Eaten != 1 {
		t.Errorf("Eaten = %d/%d, expected 1", m.Eaten(), d.Eaten)
	}
}

func TestEmptyIntentChangesNothing(t *testing.T) {
	f := field.Of(tileAt("carrot", 6, 5), tileAt("oak", 4, 5))
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(5.5, 5.25))

	before := m.Snapshot()
	for _, in := range []core.IntentSet{none, core.Intents(core.DirLeft, core.DirRight), core.Intents(core.DirUp, core.DirDown)} {
		d := m.Step(in)
		if d.Moved || d.Blocked || d.Consumed != nil {
			t.Errorf("Step(%v) = %+v, expected no change", in, d)
		}
	}
	after := m.Snapshot()

	if after.Exact != before.Exact || after.Tiles != before.Tiles || after.Eaten != before.Eaten {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
	if len(after.Footprints) != 0 || len(after.Effects) != 0 {
		t.Errorf("history/effects changed: %+v", after)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	opts := testOptions(NewManualClock(t0))
	opts.HistoryLimit = 3
	f := field.Of(
		tileAt("carrot", 1, 0),
		tileAt("banana", 2, 0),
		tileAt("apple", 3, 0),
		tileAt("carrot", 4, 0),
	)
	m := newTestMachine(t, opts, f, core.V(0, 0))

	var last Delta
	for i := 0; i < 4; i++ {
		last = m.Step(right)
		if n := len(m.Footprints()); n > 3 {
			t.Fatalf("step %d: history length %d exceeds limit", i, n)
		}
	}

	want := []core.Position{core.P(2, 0), core.P(3, 0), core.P(4, 0)}
	got := m.Footprints()
	if len(got) != len(want) {
		t.Fatalf("Footprints() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Footprints()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}
	if last.Evicted == nil || *last.Evicted != core.P(1, 0) {
		t.Errorf("Evicted = %v, expected (1,0)", last.Evicted)
	}
	if m.Eaten() != 4 {
		t.Errorf("Eaten() = %d, expected 4", m.Eaten())
	}
}

func TestEquipGrantsAndExpires(t *testing.T) {
	clock := NewManualClock(t0)
	feather := tileAt("feather", 1, 0)
	m := newTestMachine(t, testOptions(clock), field.Of(feather), core.V(0, 0))

	d := m.Step(right)

	if d.Consumed == nil || len(d.Acquired) != 1 || d.Acquired[0].Kind != catalog.EffectFly {
		t.Fatalf("Step onto feather = %+v", d)
	}
	if m.Field().Len() != 0 {
		t.Error("equipable tile should be removed")
	}
	if len(m.Footprints()) != 0 {
		t.Error("equipping should not leave a footprint in consumed mode")
	}
	if !m.HasEffect(catalog.EffectFly) {
		t.Fatal("fly should be active")
	}
	if got := m.Effects()[0].ExpiresAt; !got.Equal(t0.Add(feather.Type.Duration)) {
		t.Errorf("ExpiresAt = %v, expected %v", got, t0.Add(feather.Type.Duration))
	}

	clock.Advance(feather.Type.Duration - time.Millisecond)
	if d := m.Step(none); len(d.Expired) != 0 {
		t.Errorf("expired early: %v", d.Expired)
	}

	clock.Advance(time.Millisecond)
	d = m.Step(none)
	if len(d.Expired) != 1 || d.Expired[0] != catalog.EffectFly {
		t.Errorf("Expired = %v, expected [fly]", d.Expired)
	}
	if len(m.Effects()) != 0 {
		t.Errorf("Effects() = %v, expected none", m.Effects())
	}
}

func TestSpeedScalesWithAmplifier(t *testing.T) {
	tests := []struct {
		name      string
		amplifier float64
	}{
		{"fast", 1.2},
		{"slow", 0.5},
		{"neutral", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(NewManualClock(t0))
			opts.BaseSpeed = 0.25
			f := field.Of(field.Tile{ID: "b", Pos: core.P(1, 0), Type: boots(tt.amplifier, time.Second)})
			m := newTestMachine(t, opts, f, core.V(0.9, 0))

			m.Step(right) // 0.9 -> 1.15 picks up the boots
			if got := m.SpeedFactor(); got != tt.amplifier {
				t.Fatalf("SpeedFactor() = %v, expected %v", got, tt.amplifier)
			}

			before := m.Exact()
			m.Step(right)
			moved := m.Exact().Add(before.Scale(-1)).Len()
			if want := 0.25 * tt.amplifier; math.Abs(moved-want) > 1e-9 {
				t.Errorf("displacement = %v, expected %v", moved, want)
			}
		})
	}
}

func TestSpeedFactorMultiplies(t *testing.T) {
	mud := catalog.MustLoad().Get("mud")
	f := field.Of(
		field.Tile{ID: "b", Pos: core.P(1, 0), Type: boots(2, time.Second)},
		field.Tile{ID: "m", Pos: core.P(1, 2), Type: mud},
	)
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(0, 0))

	m.Step(right) // (1,0) boots
	m.Step(down)  // speed 2 lands on the mud at (1,2)
	if m.Position() != core.P(1, 2) {
		t.Fatalf("Position() = %v, expected (1,2)", m.Position())
	}
	if !m.HasEffect(catalog.EffectFast) || !m.HasEffect(catalog.EffectSlow) {
		t.Fatalf("Effects() = %v, expected fast and slow", m.Effects())
	}
	want := 2 * mud.Amplifier
	if got := m.SpeedFactor(); math.Abs(got-want) > 1e-9 {
		t.Errorf("SpeedFactor() = %v, expected %v", got, want)
	}

	before := m.Exact()
	m.Step(down)
	if got := m.Exact().Y - before.Y; math.Abs(got-want) > 1e-9 {
		t.Errorf("displacement = %v, expected %v", got, want)
	}
}

func TestReacquireReplacesAmplifier(t *testing.T) {
	clock := NewManualClock(t0)
	f := field.Of(
		field.Tile{ID: "long", Pos: core.P(1, 0), Type: boots(1.5, 5*time.Second)},
		field.Tile{ID: "short", Pos: core.P(1, 1), Type: boots(1.2, time.Second)},
	)
	m := newTestMachine(t, testOptions(clock), f, core.V(0, 0))

	m.Step(right) // (1,0) long boots
	m.Step(down)  // speed 1.5 lands on the short boots at (1,1)
	if m.Position() != core.P(1, 1) {
		t.Fatalf("Position() = %v, expected (1,1)", m.Position())
	}

	effects := m.Effects()
	if len(effects) != 1 {
		t.Fatalf("Effects() = %v, expected a single fast effect", effects)
	}
	if effects[0].Amplifier != 1.2 {
		t.Errorf("Amplifier = %v, expected the newer 1.2", effects[0].Amplifier)
	}
	if !effects[0].ExpiresAt.Equal(t0.Add(5 * time.Second)) {
		t.Errorf("ExpiresAt = %v, expected the later expiry", effects[0].ExpiresAt)
	}

	clock.Advance(time.Second)
	if d := m.Step(none); len(d.Expired) != 0 {
		t.Errorf("stale expiry removed the effect: %v", d.Expired)
	}
	clock.Advance(4 * time.Second)
	if d := m.Step(none); len(d.Expired) != 1 {
		t.Errorf("Expired = %v, expected fast", d.Expired)
	}
	if m.SpeedFactor() != 1 {
		t.Errorf("SpeedFactor() = %v after expiry, expected 1", m.SpeedFactor())
	}
}

func TestFlyPassesSolid(t *testing.T) {
	f := field.Of(tileAt("feather", 1, 0), tileAt("oak", 2, 0), tileAt("cactus", 2, 1))
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(0, 0))

	m.Step(right)
	d := m.Step(right)
	if d.Blocked || m.Position() != core.P(2, 0) {
		t.Fatalf("flying player should enter the oak cell, got %v blocked=%v", m.Position(), d.Blocked)
	}
	if _, ok := m.TileAt(core.P(2, 0)); !ok {
		t.Error("solid tile should survive being flown over")
	}

	d = m.Step(down)
	if d.Blocked || !d.Hazard {
		t.Errorf("entering cactus while flying: blocked=%v hazard=%v", d.Blocked, d.Hazard)
	}
}

func TestWalkOutOfSolidAfterFlyExpires(t *testing.T) {
	clock := NewManualClock(t0)
	opts := testOptions(clock)
	opts.BaseSpeed = 0.25
	opts.Bounds = core.NewRect(0, 0, 10, 10)
	f := field.Of(tileAt("feather", 1, 5), tileAt("oak", 2, 5))
	m := newTestMachine(t, opts, f, core.V(0.9, 5.5))

	for i := 0; i < 5; i++ {
		m.Step(right)
	}
	if m.Position() != core.P(2, 5) {
		t.Fatalf("Position() = %v, expected to fly into the oak at (2,5)", m.Position())
	}

	clock.Advance(6 * time.Second)
	if d := m.Step(right); d.Blocked || len(d.Expired) != 1 {
		t.Fatalf("moving inside the oak cell after fly expired: blocked=%v expired=%v", d.Blocked, d.Expired)
	}
	for i := 0; i < 3; i++ {
		m.Step(right)
	}
	if m.Position() != core.P(3, 5) {
		t.Fatalf("Position() = %v, expected to walk out to (3,5)", m.Position())
	}

	if d := m.Step(left); !d.Blocked {
		t.Error("re-entering the oak without fly should be blocked")
	}
	if _, ok := m.TileAt(core.P(2, 5)); !ok {
		t.Error("oak should stay in the field")
	}
}

func TestSolidWinsOverOtherProperties(t *testing.T) {
	tests := []struct {
		name string
		tt   *catalog.TileType
	}{
		{"solid edible", &catalog.TileType{
			ID:         "stone-fruit",
			Glyph:      'S',
			Properties: catalog.Solid | catalog.Edible,
			Weight:     1,
		}},
		{"solid equipable", &catalog.TileType{
			ID:         "anvil-boots",
			Glyph:      'A',
			Properties: catalog.Solid | catalog.Equipable | catalog.Fast,
			Effects:    []catalog.EffectKind{catalog.EffectFast},
			Duration:   time.Second,
			Amplifier:  2,
			Weight:     1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field.Of(field.Tile{ID: "x", Pos: core.P(6, 5), Type: tt.tt})
			m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(5, 5))

			d := m.Step(right)
			if !d.Blocked || d.Moved {
				t.Errorf("Blocked/Moved = %v/%v, expected true/false", d.Blocked, d.Moved)
			}
			if m.Exact() != core.V(5, 5) {
				t.Errorf("Exact() = %v, expected unchanged (5,5)", m.Exact())
			}
			if m.Field().Len() != 1 || d.Consumed != nil {
				t.Errorf("tile should stay in the field, consumed=%v", d.Consumed)
			}
			if d.Footprint != nil || len(m.Footprints()) != 0 {
				t.Errorf("no footprint expected, got %v", m.Footprints())
			}
			if len(d.Acquired) != 0 || len(m.Effects()) != 0 {
				t.Errorf("no effect expected, got %v", m.Effects())
			}
			if m.Eaten() != 0 {
				t.Errorf("Eaten() = %d, expected 0", m.Eaten())
			}
		})
	}
}

func TestHazardWhileStanding(t *testing.T) {
	opts := testOptions(NewManualClock(t0))
	opts.Bounds = core.NewRect(0, 0, 3, 1)
	f := field.Of(tileAt("feather", 1, 0), tileAt("cactus", 2, 0))
	m := newTestMachine(t, opts, f, core.V(0, 0))

	m.Step(right)
	if d := m.Step(right); !d.Hazard {
		t.Fatal("entering the cactus should report a hazard")
	}
	if d := m.Step(none); !d.Hazard {
		t.Error("idle on the cactus should still report a hazard")
	}
	if d := m.Step(right); !d.Blocked || !d.Hazard {
		t.Errorf("blocked on the cactus: blocked=%v hazard=%v", d.Blocked, d.Hazard)
	}
}

func TestVerticalOnlyBlocking(t *testing.T) {
	tests := []struct {
		name    string
		intents core.IntentSet
		blocked bool
	}{
		{"horizontal passes", right, false},
		{"vertical blocked", down, true},
		{"diagonal passes", core.Intents(core.DirRight, core.DirDown), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(NewManualClock(t0))
			opts.BlockBothAxesOnSolid = false
			f := field.Of(tileAt("oak", 6, 5), tileAt("pine", 5, 6), tileAt("palm", 6, 6))
			m := newTestMachine(t, opts, f, core.V(5, 5))

			d := m.Step(tt.intents)
			if d.Blocked != tt.blocked {
				t.Errorf("Blocked = %v, expected %v", d.Blocked, tt.blocked)
			}
			if d.Moved == tt.blocked {
				t.Errorf("Moved = %v, expected %v", d.Moved, !tt.blocked)
			}
			if m.Field().Len() != 3 {
				t.Error("solid tiles should never be removed")
			}
		})
	}
}

func TestDangerousTiles(t *testing.T) {
	f := field.Of(tileAt("toadstool", 1, 0), tileAt("cactus", 2, 0))
	m := newTestMachine(t, testOptions(NewManualClock(t0)), f, core.V(0, 0))

	d := m.Step(right)
	if !d.Hazard || d.Consumed == nil {
		t.Errorf("toadstool: hazard=%v consumed=%v", d.Hazard, d.Consumed)
	}
	if m.Eaten() != 1 {
		t.Errorf("toadstool is edible, Eaten() = %d", m.Eaten())
	}

	d = m.Step(right)
	if !d.Blocked || d.Hazard {
		t.Errorf("cactus should block without reaching the player: %+v", d)
	}

	d = m.Step(left)
	if d.Hazard {
		t.Error("empty cell should not be a hazard")
	}
}

func TestVisitedFootprints(t *testing.T) {
	opts := testOptions(NewManualClock(t0))
	opts.BaseSpeed = 0.5
	opts.Footprints = FootprintsVisited
	f := field.Of(tileAt("carrot", 2, 0))
	m := newTestMachine(t, opts, f, core.V(0, 0))

	if d := m.Step(right); d.Footprint != nil {
		t.Errorf("staying in the same cell should not leave a footprint: %v", d.Footprint)
	}
	m.Step(right) // (1,0)
	m.Step(left)  // (0,0)
	m.Step(right) // (1,0) again, already on trail
	m.Step(right)
	m.Step(right) // (2,0) eats the carrot

	want := []core.Position{core.P(1, 0), core.P(0, 0), core.P(2, 0)}
	got := m.Footprints()
	if len(got) != len(want) {
		t.Fatalf("Footprints() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Footprints()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}
	if m.Eaten() != 1 {
		t.Errorf("Eaten() = %d, expected 1", m.Eaten())
	}
}

func TestBounds(t *testing.T) {
	opts := testOptions(NewManualClock(t0))
	opts.Bounds = core.NewRect(0, 0, 10, 10)
	m := newTestMachine(t, opts, field.New(), core.V(9, 5))

	if d := m.Step(right); !d.Blocked {
		t.Error("moving out of bounds should be blocked")
	}
	if m.Position() != core.P(9, 5) {
		t.Errorf("Position() = %v, expected (9,5)", m.Position())
	}

	m.SetBounds(core.NewRect(0, 0, 5, 5))
	if m.Position() != core.P(4, 4) {
		t.Errorf("SetBounds should pull the player inside, got %v", m.Position())
	}

	m.SetBounds(core.Rect{})
	if d := m.Step(right); d.Blocked {
		t.Error("zero bounds should leave the grid unbounded")
	}
}

func TestNewClampsStart(t *testing.T) {
	opts := testOptions(NewManualClock(t0))
	opts.Bounds = core.NewRect(0, 0, 8, 4)
	m := newTestMachine(t, opts, nil, core.V(20, -3))

	if m.Position() != core.P(7, 0) {
		t.Errorf("Position() = %v, expected (7,0)", m.Position())
	}
	if m.Field() == nil {
		t.Error("nil field should become an empty field")
	}
}

func TestReplaceFieldClearsPlayerCell(t *testing.T) {
	m := newTestMachine(t, testOptions(NewManualClock(t0)), field.New(), core.V(3, 3))

	m.ReplaceField(field.Of(tileAt("oak", 3, 3), tileAt("carrot", 4, 3)))

	if _, ok := m.TileAt(core.P(3, 3)); ok {
		t.Error("tile under the player should be cleared")
	}
	if _, ok := m.TileAt(core.P(4, 3)); !ok {
		t.Error("other tiles should be kept")
	}
	if d := m.Step(right); d.Consumed == nil {
		t.Error("player should interact with the new field")
	}
}

func TestClose(t *testing.T) {
	clock := NewManualClock(t0)
	f := field.Of(tileAt("clover", 1, 0))
	m := newTestMachine(t, testOptions(clock), f, core.V(0, 0))
	m.Step(right)
	if !m.HasEffect(catalog.EffectFast) {
		t.Fatal("clover should grant fast")
	}

	m.Close()
	m.Close()

	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
	if len(m.Effects()) != 0 || m.effects.pending() != 0 {
		t.Error("Close should drop effects and pending expiries")
	}
	tick := m.Tick()
	clock.Advance(time.Minute)
	if d := m.Step(right); d.Moved || len(d.Expired) != 0 {
		t.Errorf("Step after Close = %+v, expected no-op", d)
	}
	if m.Tick() != tick {
		t.Error("Step after Close should not advance the tick")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Options)
		want error
	}{
		{"zero speed", func(o *Options) { o.BaseSpeed = 0 }, ErrInvalidSpeed},
		{"negative speed", func(o *Options) { o.BaseSpeed = -1 }, ErrInvalidSpeed},
		{"nan speed", func(o *Options) { o.BaseSpeed = math.NaN() }, ErrInvalidSpeed},
		{"zero history", func(o *Options) { o.HistoryLimit = 0 }, ErrInvalidHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mut(&opts)
			if _, err := New(opts, nil, core.Vec{}); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, expected %v", err, tt.want)
			}
		})
	}

	opts := DefaultOptions()
	opts.Footprints = "everywhere"
	if _, err := New(opts, nil, core.Vec{}); err == nil {
		t.Error("unknown footprint mode should be rejected")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		gen, err := field.NewSeededGenerator(catalog.MustLoad(), 42)
		if err != nil {
			t.Fatal(err)
		}
		f, err := gen.Generate(context.Background(), 40, 20, 0.2)
		if err != nil {
			t.Fatal(err)
		}

		opts := testOptions(NewManualClock(t0))
		opts.BaseSpeed = 0.3
		opts.Bounds = core.NewRect(0, 0, 40, 20)
		m := newTestMachine(t, opts, field.New(), core.V(20, 10))
		m.ReplaceField(f)

		script := []core.IntentSet{right, right, down, core.Intents(core.DirDown, core.DirLeft), left, none}
		for i := 0; i < 300; i++ {
			m.Step(script[(i/7)%len(script)])
		}
		return m.Snapshot()
	}

	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Errorf("snapshots differ: %+v vs %+v", a, b)
	}
	if a.Tick != 300 {
		t.Errorf("Tick = %d, expected 300", a.Tick)
	}
}
