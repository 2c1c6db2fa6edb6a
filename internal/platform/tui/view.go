package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/burrow/internal/core"
)

const (
	playerGlyph    = '@'
	footprintGlyph = '.'
)

// draw paints the field, the footprint trail and the player.
func (m Model) draw(dst *core.Screen) {
	dst.Clear()

	for _, t := range m.machine.Tiles() {
		if t.Pos.Y < m.gridH {
			dst.Set(t.Pos.X, t.Pos.Y, t.Type.Glyph, t.Type.Color)
		}
	}

	for _, p := range m.machine.Footprints() {
		if _, occupied := m.machine.TileAt(p); !occupied && p.Y < m.gridH {
			dst.Set(p.X, p.Y, footprintGlyph, core.ColorBrown)
		}
	}

	pos := m.machine.Position()
	color := core.ColorBrightYellow
	if m.last.Hazard {
		color = core.ColorBrightRed
	}
	if pos.Y < m.gridH {
		dst.Set(pos.X, pos.Y, playerGlyph, color)
	}
}

// statusText summarises the counter and active effects.
func (m Model) statusText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, " %s | eaten %d | %s", m.variant.Title, m.machine.Eaten(), m.machine.Position())

	now := m.clock.Now()
	for _, e := range m.machine.Effects() {
		fmt.Fprintf(&sb, " | %s %.1fs", e.Kind, e.Remaining(now).Round(100*time.Millisecond).Seconds())
	}
	if m.last.Hazard {
		sb.WriteString(" | ouch!")
	}
	if held := m.capture.Held(); !held.Empty() {
		fmt.Fprintf(&sb, " | %s", held)
	}
	return sb.String()
}
