// Package tui provides the terminal user interface for akima.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/akima/internal/config"
	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/slot"
	"github.com/javiermolinar/akima/internal/tui/commands"
	"github.com/javiermolinar/akima/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // typing a rephrase instruction
	ModeHelp        // help overlay
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePrompt:
		return "prompt"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

const (
	saveDelay              = 400 * time.Millisecond
	copiedFeedback         = 1500 * time.Millisecond
	statusDuration         = 3 * time.Second
	errorDuration          = 5 * time.Second
	rephraseStatusDuration = 90 * time.Second
	gridTop                = 1 // the title takes the first line
	minPanelWidth          = 28
	panelGap               = 1
	footerHeight           = 2
	promptMaxLines         = 3
	panelMaxLines          = 14
	emptyOutputHint        = "セルを選択すると候補日時がここに表示されます"
)

// Position is the keyboard cursor in the grid.
type Position struct {
	Day int // column, 0 is today
	Row int // hour row, 0 is the window start
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   slot.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Selection state
	store   *slot.Store
	machine *gesture.Machine
	days    []dateutil.Day

	// State
	template     render.Template
	cursor       Position
	mode         Mode
	loading      bool
	loadFailed   bool // saving would overwrite slots that were never read
	savedVersion uint64
	saving       bool // a selection write is in flight
	quitting     bool // quit once the in-flight write settles

	// Rephrase state
	rephrased     string // LLM rewrite of rephrasedFrom
	rephrasedFrom string
	rephrasing    bool

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message
	statusErr  bool

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock overrides the clock used to build the 7-day window.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model.
func New(repo slot.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. in English, more casual"
	ti.CharLimit = 200

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Prompt
	ti.PlaceholderStyle = styles.Muted

	m := &Model{
		repo:     repo,
		config:   cfg,
		theme:    t,
		styles:   styles,
		store:    slot.NewStore(cfg.WindowValue()),
		template: cfg.TemplateValue(),
		mode:     ModeNormal,
		loading:  repo != nil,
		prompt:   ti,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.days = dateutil.Week(m.now())
	m.machine = gesture.New(m.store,
		gesture.WithDates(m.dates()),
		gesture.WithObserver(LogTransition),
	)
	m.savedVersion = m.store.Version()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	first, last := m.weekRange()
	return commands.LoadSession(m.repo, first, last)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo slot.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) dates() []dateutil.Date {
	dates := make([]dateutil.Date, len(m.days))
	for i, d := range m.days {
		dates[i] = d.Date
	}
	return dates
}

func (m Model) weekRange() (dateutil.Date, dateutil.Date) {
	return m.days[0].Date, m.days[len(m.days)-1].Date
}

// Store exposes the selection store, used by tests and the CLI.
func (m Model) Store() *slot.Store {
	return m.store
}

// Output returns the text shown in the output panel.
func (m Model) Output() string {
	text := m.renderedText()
	if m.rephrased != "" && m.rephrasedFrom == text {
		return m.rephrased
	}
	return text
}

func (m Model) renderedText() string {
	return render.Render(m.store.Snapshot(), m.template)
}

func (m Model) labels() []string {
	snap := m.store.Snapshot()
	var labels []string
	for _, d := range m.days {
		if len(snap.VisibleHours(d.Date)) > 0 {
			labels = append(labels, d.Display)
		}
	}
	return labels
}

func (m Model) preferences() slot.Preferences {
	w := m.store.Window()
	return slot.Preferences{
		Template:  m.template.String(),
		StartHour: w.StartHour,
		EndHour:   w.EndHour,
	}
}
