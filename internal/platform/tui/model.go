package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/config"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/engine"
	"github.com/vovakirdan/burrow/internal/field"
	"github.com/vovakirdan/burrow/internal/registry"
	"github.com/vovakirdan/burrow/internal/telemetry"
)

// Rows reserved below the grid: status line and help line.
const hudHeight = 2

// Options configures a play session.
type Options struct {
	Context context.Context // Parent of field generation spans
	Config  config.Config
	Variant registry.Variant
	Catalog *catalog.Catalog // Full catalog; the variant filters it
	Runtime core.RuntimeConfig
	Clock   engine.Clock
	Logger  *log.Logger
}

// Model is the Bubble Tea model for a play session.
type Model struct {
	machine *engine.Machine
	gen     *field.Generator
	capture *core.IntentCapture
	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	clock   engine.Clock
	logger  *log.Logger
	ctx     context.Context

	cfg     config.Config
	variant registry.Variant
	runtime core.RuntimeConfig
	mode    field.Mode
	gridW   int
	gridH   int

	last     engine.Delta
	quitting bool
}

// NewModel builds the machine and the first field for the given terminal size.
func NewModel(opts Options) (Model, error) {
	if opts.Catalog == nil {
		return Model{}, errors.New("tui: nil catalog")
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = opts.Config.TickRate
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clock == nil {
		opts.Clock = engine.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	mode, err := field.ParseMode(opts.Config.Field.Mode)
	if err != nil {
		return Model{}, err
	}
	cat, err := opts.Variant.Catalog(opts.Catalog)
	if err != nil {
		return Model{}, err
	}
	gen, err := field.NewSeededGenerator(cat, opts.Runtime.Seed)
	if err != nil {
		return Model{}, err
	}

	// Speed is configured per second; the machine steps at the runtime tick rate.
	opts.Config.TickRate = opts.Runtime.TickRate
	eopts := opts.Config.EngineOptions(opts.Variant)
	eopts.Clock = opts.Clock
	eopts.Logger = opts.Logger

	gridW, gridH := gridSize(opts.Runtime.ScreenW, opts.Runtime.ScreenH)
	bounds := core.NewRect(0, 0, gridW, gridH)
	eopts.Bounds = bounds

	machine, err := engine.New(eopts, nil, bounds.Center().Vec())
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		machine: machine,
		gen:     gen,
		capture: core.NewIntentCapture(opts.Config.Player.HoldTimeout),
		screen:  core.NewScreen(gridW, gridH),
		keys:    DefaultKeyMap(),
		help:    h,
		clock:   opts.Clock,
		logger:  opts.Logger,
		ctx:     opts.Context,
		cfg:     opts.Config,
		variant: opts.Variant,
		runtime: opts.Runtime,
		mode:    mode,
		gridW:   gridW,
		gridH:   gridH,
	}
	m.regenerate()
	return m, nil
}

// gridSize returns the playable area for a terminal of the given size.
func gridSize(screenW, screenH int) (int, int) {
	return max(screenW, 0), max(screenH-hudHeight, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.machine.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		m.capture.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Regenerate):
		m.regenerate()
		return m, nil
	}

	if d, ok := m.keys.Direction(msg); ok {
		m.capture.Press(d, m.clock.Now())
	}
	return m, nil
}

// handleResize regenerates the field for the new grid between ticks.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.help.Width = msg.Width

	w, h := gridSize(msg.Width, msg.Height)
	if w == m.gridW && h == m.gridH {
		return m, nil
	}
	m.gridW, m.gridH = w, h
	m.screen.Resize(w, h)
	m.regenerate()
	return m, nil
}

// handleTick advances the machine with the currently held directions.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.machine.Closed() {
		return m, nil
	}

	m.capture.Expire(m.clock.Now())
	d := m.machine.Step(m.capture.Held())
	if d.Consumed != nil {
		m.logger.Info("picked up", "tile", d.Consumed.Type.ID, "pos", d.Consumed.Pos, "eaten", d.Eaten)
	}
	if d.Hazard && !m.last.Hazard {
		m.logger.Warn("stepped on a hazard", "pos", d.Position)
	}
	m.last = d

	return m, tickCmd(m.runtime.TickRate)
}

// regenerate replaces the field with a fresh one sized to the grid.
func (m *Model) regenerate() {
	f, err := m.gen.Build(m.ctx, m.mode, m.gridW, m.gridH, m.cfg.Field.Density)
	if err != nil {
		m.logger.Error("field generation failed", "err", err, "width", m.gridW, "height", m.gridH)
		f = field.New()
	}
	m.machine.SetBounds(core.NewRect(0, 0, m.gridW, m.gridH))
	m.machine.ReplaceField(f)
	m.logger.Debug("field regenerated", "width", m.gridW, "height", m.gridH, "tiles", f.Len())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw(m.screen)

	var sb strings.Builder
	if m.screen.Height() > 0 {
		sb.WriteString(RenderScreen(m.screen))
		sb.WriteString("\n")
	}
	sb.WriteString(renderStatus(m.statusText(), m.runtime.ScreenW))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Machine returns the session's state machine.
func (m Model) Machine() *engine.Machine {
	return m.machine
}

// Run starts the Bubble Tea program for a play session.
func Run(ctx context.Context, opts Options) error {
	ctx, span := telemetry.Tracer("tui").Start(ctx, "burrow.session")
	defer span.End()
	span.SetAttributes(telemetry.SessionAttributes(opts.Variant.ID, opts.Runtime.Seed)...)

	opts.Context = ctx
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	model.logger.Info("session started",
		"variant", opts.Variant.ID,
		"grid", core.NewRect(0, 0, model.gridW, model.gridH),
		"tiles", len(model.machine.Tiles()),
	)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.machine.Close()
		span.SetAttributes(telemetry.KeyEaten.Int(fm.machine.Eaten()))
		fm.logger.Info("session ended", "eaten", fm.machine.Eaten(), "ticks", fm.machine.Tick())
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
