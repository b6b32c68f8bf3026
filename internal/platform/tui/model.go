package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

// Options wires a Model to its collaborators. Zero values are usable:
// no store, no audio, a private tilt filter fed by the keyboard.
type Options struct {
	Config  config.MoonWalkConfig
	Runtime core.RuntimeConfig
	Store   storage.Backend
	Audio   moonwalk.AudioPlayer
	Tilt    *moonwalk.TiltFilter
	// ExternalTilt disables the keyboard sampler because another producer,
	// such as the phone controller, feeds Tilt.
	ExternalTilt bool
	// ControllerURL is shown in the status bar while a phone steers.
	ControllerURL string
	Logger        *log.Logger
}

// Model is the Bubble Tea model running one MoonWalk game.
type Model struct {
	game       *moonwalk.Game
	screen     *core.Screen
	store      storage.Backend
	audio      moonwalk.AudioPlayer
	cues       *cueQueue
	tilt       *moonwalk.TiltFilter
	keys       *keyboardTilt
	keyMapper  *KeyMapper
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	lastTick   time.Time
	keyboard   bool
	phoneURL   string
	runs       int // runs saved to the store this session
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for a MoonWalk game.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Audio == nil {
		opts.Audio = nopPlayer{}
	}
	if opts.Tilt == nil {
		opts.Tilt = moonwalk.NewTiltFilter()
	}
	if opts.Config.Scroll.Layers == nil {
		opts.Config = config.DefaultMoonWalkConfig()
	}

	cues := &cueQueue{}
	gameOpts := []moonwalk.Option{
		moonwalk.WithConfig(opts.Config),
		moonwalk.WithAudio(cues),
		moonwalk.WithTilt(opts.Tilt),
		moonwalk.WithLogger(opts.Logger),
	}
	if opts.Store != nil {
		gameOpts = append(gameOpts, moonwalk.WithStore(opts.Store))
	}

	return Model{
		game:       moonwalk.New(gameOpts...),
		screen:     core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		store:      opts.Store,
		audio:      opts.Audio,
		cues:       cues,
		tilt:       opts.Tilt,
		keys:       &keyboardTilt{},
		keyMapper:  NewKeyMapper(),
		logger:     opts.Logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyboard:   !opts.ExternalTilt,
		phoneURL:   opts.ControllerURL,
	}
}

type nopPlayer struct{}

func (nopPlayer) Play(moonwalk.SoundID, bool) {}

// playfieldHeight leaves the last terminal row for the status bar.
func playfieldHeight(rows int) int {
	if rows > 1 {
		return rows - 1
	}
	return rows
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.tilt.Reset()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if m.keyboard {
		cmds = append(cmds, tiltSampleCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case JumpMsg:
		m.inputFrame.Set(core.ActionJump)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case tiltSampleMsg:
		if !m.keyboard {
			return m, nil
		}
		m.tilt.Sample(m.keys.Raw(time.Time(msg)))
		return m, tiltSampleCmd()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, tea.Quit
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionJump:
		m.inputFrame.Set(core.ActionJump)
	case core.ActionTiltLeft, core.ActionTiltRight:
		if m.keyboard {
			m.keys.Press(action, time.Now())
		}
	}

	return m, nil
}

// handleResize only rescales the view; the world keeps its configured size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.lastTick.IsZero() {
		m.inputFrame.DT = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.GameOver {
		m.saveRun(result.FinalScore)
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	cmds := m.cues.drain(m.audio)
	cmds = append(cmds, tickCmd(m.config.TickRate))
	return m, tea.Batch(cmds...)
}

// saveRun records a finished run in the history. Zero-point runs are skipped.
func (m *Model) saveRun(score int) {
	if m.store == nil || score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), score); err != nil {
		m.logger.Warn("saving run", "score", score, "err", err)
		return
	}
	m.runs++
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".moonwalk", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	tilt := "keys ←/→ lean"
	if !m.keyboard {
		tilt = "phone tilt"
		if m.phoneURL != "" {
			tilt += " " + m.phoneURL
		}
	}
	left := fmt.Sprintf(" MoonWalk  %s  space jump  esc menu  q quit", tilt)
	right := fmt.Sprintf("tilt %+.2f  runs %d ", m.tilt.Value(), m.runs)
	return renderStatusBar(left, right, m.config.ScreenW)
}

// Game exposes the running game.
func (m Model) Game() *moonwalk.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// NewProgram wraps a model in a full-screen Bubble Tea program.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(m, opts...)
}

// Run plays until the user quits or goes back. It reports whether the user
// asked to go back to the menu.
func Run(p *tea.Program) (backToMenu bool, err error) {
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
