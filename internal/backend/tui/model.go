package tui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/theme"
)

const (
	defaultWidth   = 64
	maxDialogWidth = 72
	minDialogWidth = 24
)

type msgHandler func(tea.Msg) tea.Cmd

// entry is one open dialog.
type entry struct {
	id            dialog.ID
	opts          dialog.Options
	progress      bool
	value         float32
	text          string
	indeterminate bool
	focus         int
}

// Model implements tea.Model and dispatcher.DialogManager.
type Model struct {
	results bus.ResultSink
	styles  *theme.Styles
	loop    *dispatcher.Loop

	dialogs []*entry
	width   int
	height  int

	bar  progress.Model
	spin spinner.Model
	// spinning is true while a spinner tick is in flight.
	spinning bool

	// after holds commands requested by manager calls made during a pump.
	after    []tea.Cmd
	quitting bool

	handlers map[reflect.Type]msgHandler
}

// New builds a Model reporting outcomes to results. width <= 0 means the
// terminal width is learnt from the first WindowSizeMsg.
func New(results bus.ResultSink, th dialog.Theme, width int) *Model {
	styles := theme.For(th)
	spin := spinner.New()
	spin.Spinner = spinner.Line
	spin.Style = *styles.Instruction
	m := &Model{
		results: results,
		styles:  styles,
		width:   width,
		bar:     progress.New(progress.WithSolidFill(styles.Palette.Accent)),
		spin:    spin,
	}
	m.registerHandlers()
	return m
}

// Attach connects the dispatcher the model pumps. It must be called before
// the program starts.
func (m *Model) Attach(loop *dispatcher.Loop) {
	m.loop = loop
}

func (m *Model) Init() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	return waitForCommands(m.loop)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(commandsReadyMsg{}):  m.handleCommandsReadyMsg,
		reflect.TypeOf(loopDoneMsg{}):       m.handleLoopDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.width = size.Width
	m.height = size.Height
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if !m.anyIndeterminate() {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return cmd
}

// startSpinner queues a tick unless one is already running.
func (m *Model) startSpinner() {
	if m.spinning {
		return
	}
	m.spinning = true
	m.after = append(m.after, m.spin.Tick)
}

func (m *Model) anyIndeterminate() bool {
	for _, e := range m.dialogs {
		if e.progress && e.indeterminate {
			return true
		}
	}
	return false
}

// top is the dialog that is drawn and takes input.
func (m *Model) top() *entry {
	if len(m.dialogs) == 0 {
		return nil
	}
	return m.dialogs[len(m.dialogs)-1]
}

func (m *Model) find(id dialog.ID) (int, *entry) {
	for i, e := range m.dialogs {
		if e.id == id {
			return i, e
		}
	}
	return -1, nil
}

// Open lists open dialog ids, oldest first.
func (m *Model) Open() []dialog.ID {
	ids := make([]dialog.ID, len(m.dialogs))
	for i, e := range m.dialogs {
		ids[i] = e.id
	}
	return ids
}

// Quitting reports whether the program has been asked to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}
