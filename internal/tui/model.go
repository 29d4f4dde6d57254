// Package tui is the terminal rendition of the contracts table.
package tui

import (
	"context"
	"strconv"

	bubbletable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/table"
)

const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keySlash   = "/"
	keySort    = "s"
	keyReload  = "r"
	keyGrow    = "+"
	keyShrink  = "-"
	keyLeft    = "left"
	keyRight   = "right"
	keyPrevVim = "h"
	keyNextVim = "l"
)

const (
	defaultWidth  = 120
	defaultHeight = 30
	chromeHeight  = 7
	minHeight     = 5
)

// pageSizes are the steps walked by + and -.
var pageSizes = []int{10, 25, 50, 100}

// PageLoadedMsg carries a finished fetch back into Update.
type PageLoadedMsg struct {
	Result table.Result
}

// column picks one cell of table.Cells for the terminal, which cannot fit all
// of them.
type column struct {
	index int
	title string
	width int
}

var columns = []column{
	{index: 0, title: "ID", width: 6},
	{index: 4, title: "Cliente", width: 24},
	{index: 5, title: "CPF/CNPJ", width: 18},
	{index: 6, title: "Contrato", width: 10},
	{index: 7, title: "Data", width: 10},
	{index: 8, title: "Prest.", width: 6},
	{index: 9, title: "Valor Total", width: 16},
	{index: 25, title: "Valor Atual", width: 16},
	{index: 26, title: "Situação", width: 8},
}

// Model is the Bubble Tea model for the contracts table.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx    context.Context
	loader table.Loader
	vm     *table.ViewModel
	first  table.Request

	table     bubbletable.Model
	textInput textinput.Model
	searching bool

	width    int
	height   int
	quitting bool

	log zerolog.Logger
}

// NewModel builds the table state. The first page is fetched by Init.
func NewModel(ctx context.Context, loader table.Loader, opts table.Options, log zerolog.Logger) Model {
	vm, first := table.NewViewModel(opts)
	m := Model{
		ctx:       ctx,
		loader:    loader,
		vm:        vm,
		first:     first,
		textInput: newTextInput(),
		width:     defaultWidth,
		height:    defaultHeight,
		log:       log,
	}
	m.textInput.SetValue(vm.Search())
	m.table = m.buildTable()
	return m
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Pesquisar"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	return ti
}

func (m Model) Init() tea.Cmd {
	return m.fetch(m.first)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		return m, nil
	case PageLoadedMsg:
		return m.handlePageLoaded(msg)
	}

	if m.searching {
		return m.handleSearchInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m.handleKeypress(keyMsg)
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.vm.Resolve(msg.Result) {
		m.log.Debug().Uint64("seq", msg.Result.Seq).Msg("stale page dropped")
		return m, nil
	}
	if msg.Result.Err != nil {
		m.log.Error().Err(msg.Result.Err).Int("page", msg.Result.Page).Msg("page load failed")
	}
	m.table = m.buildTable()
	return m, nil
}

func (m Model) handleSearchInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.searching = false
			m.textInput.Blur()
			m.table.Focus()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.vm.HandleSearch(m.textInput.Value())
	m.table = m.buildTable()
	return m, cmd
}

func (m Model) handleKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keySlash:
		m.searching = true
		m.table.Blur()
		m.textInput.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.vm.Search() != "" {
			m.textInput.SetValue("")
			m.vm.HandleSearch("")
			m.table = m.buildTable()
		}
		return m, nil
	case keyLeft, keyPrevVim:
		req, ok := m.vm.GoToPreviousPage()
		if !ok {
			return m, nil
		}
		return m.startFetch(req)
	case keyRight, keyNextVim:
		return m.startFetch(m.vm.GoToNextPage())
	case keySort:
		m.vm.ToggleSort()
		m.table = m.buildTable()
		return m, nil
	case keyReload:
		return m.startFetch(m.vm.Reload())
	case keyGrow, keyShrink:
		req, ok, err := m.vm.SetPageSize(nextPageSize(m.vm.PageSize(), keyMsg.String() == keyGrow))
		if err != nil || !ok {
			return m, nil
		}
		return m.startFetch(req)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

// startFetch redraws the loading state and schedules the fetch.
func (m Model) startFetch(req table.Request) (tea.Model, tea.Cmd) {
	m.table = m.buildTable()
	return m, m.fetch(req)
}

func (m Model) fetch(req table.Request) tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		return PageLoadedMsg{Result: table.Load(ctx, loader, req)}
	}
}

// nextPageSize steps through pageSizes from the current size.
func nextPageSize(current int, grow bool) int {
	if grow {
		for _, s := range pageSizes {
			if s > current {
				return s
			}
		}
		return current
	}
	for i := len(pageSizes) - 1; i >= 0; i-- {
		if pageSizes[i] < current {
			return pageSizes[i]
		}
	}
	return current
}

func (m *Model) buildTable() bubbletable.Model {
	cols := make([]bubbletable.Column, 0, len(columns)+1)
	for _, c := range columns {
		title := c.title
		if c.index == 0 {
			title += " " + m.vm.SortIndicator()
		}
		cols = append(cols, bubbletable.Column{Title: title, Width: c.width})
	}
	cols = append(cols, bubbletable.Column{Title: "Inconsist.", Width: 10}) //nolint:mnd // Column width.

	visible := m.vm.Rows()
	rows := make([]bubbletable.Row, len(visible))
	for i, r := range visible {
		row := make(bubbletable.Row, 0, len(cols))
		for _, c := range columns {
			row = append(row, r.Cells[c.index])
		}
		issues := "-"
		if !r.Consistent() {
			issues = strconv.Itoa(len(r.Issues))
		}
		rows[i] = append(row, issues)
	}

	availableHeight := m.height - chromeHeight
	if availableHeight < minHeight {
		availableHeight = minHeight
	}

	t := bubbletable.New(
		bubbletable.WithColumns(cols),
		bubbletable.WithRows(rows),
		bubbletable.WithFocused(!m.searching),
		bubbletable.WithHeight(availableHeight),
	)
	s := bubbletable.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

// ViewModel exposes the table state, mainly for the final summary line.
func (m Model) ViewModel() *table.ViewModel {
	return m.vm
}
