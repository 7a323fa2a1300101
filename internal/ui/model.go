// Package ui is the terminal host of a filter controller: a search box, one
// row of tags per facet and the list of visible catalog items.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"facetgrip/internal/controller"
	"facetgrip/internal/domain"
	"facetgrip/internal/ui/views"
)

// FilterController is the part of the controller the view drives
type FilterController interface {
	SetSearchDebounced(term string)
	ClearSearch()
	SelectTag(id domain.FacetID, value string)
	ClearFacet(id domain.FacetID)
	Reset()
	Reinitialize()
	GetState() domain.Result
	Facets() []controller.FacetInfo
}

// ItemSource enumerates the collection in display order
type ItemSource interface {
	Items() []domain.Item
}

// Model represents the UI state
type Model struct {
	ctrl     FilterController
	items    ItemSource
	host     *Host
	renderer *views.Renderer
	keys     keyMap

	width  int
	height int
	input  textinput.Model
	help   help.Model

	focus  int                    // index into the facet list
	cursor map[domain.FacetID]int // tag cursor per facet
	result domain.Result

	status      string
	statusIsErr bool
	inPagerMode bool

	pager *Pager
}

// NewModel creates a new UI model
func NewModel(ctrl FilterController, items ItemSource, host *Host) *Model {
	ti := textinput.New()
	ti.Prompt = "search: "
	ti.Placeholder = "type to filter"
	ti.Focus()

	return &Model{
		ctrl:     ctrl,
		items:    items,
		host:     host,
		renderer: views.NewRenderer(),
		keys:     defaultKeyMap(),
		input:    ti,
		help:     help.New(),
		cursor:   make(map[domain.FacetID]int),
		result:   ctrl.GetState(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager = NewPager(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ResultMsg:
		m.result = msg.Result
		return m, nil

	case ItemsChangedMsg:
		m.host.Forget(m.items.Items())
		m.setStatus(fmt.Sprintf("collection changed (%s)", msg.Source), false)
		return m, nil

	case ErrorMsg:
		text := msg.Message
		if msg.Err != nil {
			text = fmt.Sprintf("%s: %v", msg.Message, msg.Err)
		}
		m.setStatus(text, true)
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("help: %v", msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ClearSearch):
		m.input.SetValue("")
		m.ctrl.ClearSearch()

	case key.Matches(msg, m.keys.NextFacet):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevFacet):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextTag):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevTag):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		info, ok := m.focusedFacet()
		if !ok || len(info.Control.Tags) == 0 {
			return m, nil
		}
		tag := info.Control.Tags[m.cursorFor(info)]
		m.ctrl.SelectTag(info.ID, tag.Value)

	case key.Matches(msg, m.keys.ClearFacet):
		info, ok := m.focusedFacet()
		if !ok {
			return m, nil
		}
		m.ctrl.ClearFacet(info.ID)

	case key.Matches(msg, m.keys.Reset):
		m.input.SetValue("")
		m.ctrl.Reset()
		m.setStatus("filters reset", false)

	case key.Matches(msg, m.keys.Reload):
		m.ctrl.Reinitialize()
		m.host.Forget(m.items.Items())
		m.clampFocus()
		m.setStatus("catalog reloaded", false)

	case key.Matches(msg, m.keys.Help):
		return m, m.showHelp()

	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if value := m.input.Value(); value != before {
			m.ctrl.SetSearchDebounced(value)
		}
		return m, cmd
	}

	m.result = m.ctrl.GetState()
	return m, nil
}

// showHelp returns a command that shows help using ov pager
func (m *Model) showHelp() tea.Cmd {
	content := RenderHelpContent(m.keys)
	pager := m.pager
	return func() tea.Msg {
		if pager == nil || pager.program == nil {
			return helpPagerMsg{err: fmt.Errorf("program not set")}
		}
		pager.program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		pager.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

func (m *Model) focusedFacet() (controller.FacetInfo, bool) {
	facets := m.ctrl.Facets()
	if m.focus < 0 || m.focus >= len(facets) {
		return controller.FacetInfo{}, false
	}
	return facets[m.focus], true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.ctrl.Facets())
	if n == 0 {
		m.focus = 0
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

func (m *Model) clampFocus() {
	n := len(m.ctrl.Facets())
	if m.focus >= n {
		m.focus = 0
	}
	m.cursor = make(map[domain.FacetID]int)
}

func (m *Model) moveCursor(delta int) {
	info, ok := m.focusedFacet()
	if !ok || len(info.Control.Tags) == 0 {
		return
	}
	n := len(info.Control.Tags)
	m.cursor[info.ID] = ((m.cursorFor(info)+delta)%n + n) % n
}

func (m *Model) cursorFor(info controller.FacetInfo) int {
	c := m.cursor[info.ID]
	if c < 0 || c >= len(info.Control.Tags) {
		return 0
	}
	return c
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	facets := m.ctrl.Facets()
	rows := make([]views.FacetRow, 0, len(facets))
	for i, info := range facets {
		row := views.FacetRow{Name: info.Control.Name, Focused: i == m.focus}
		cursor := m.cursorFor(info)
		for j, tag := range info.Control.Tags {
			label := tag.Label
			if label == "" {
				label = tag.Value
			}
			row.Tags = append(row.Tags, views.TagCell{
				Label:    label,
				Selected: m.host.IsSelected(info.ID, tag.Value),
				Cursor:   j == cursor,
			})
		}
		row.Summary, row.HasSummary = m.host.Summary(info.ID)
		rows = append(rows, row)
	}

	visible := m.host.Visible(m.items.Items())
	names := make([]string, len(visible))
	for i, item := range visible {
		names[i] = displayName(item)
	}

	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		SearchInput:   m.input.View(),
		SearchTerm:    m.result.SearchTerm,
		Facets:        rows,
		Items:         names,
		VisibleCount:  m.result.VisibleCount,
		TotalCount:    m.result.TotalCount,
		StatusMessage: m.status,
		StatusIsError: m.statusIsErr,
		HelpView:      m.help.View(m.keys),
	})
}

func displayName(item domain.Item) string {
	if s, ok := item.(fmt.Stringer); ok {
		return s.String()
	}
	if fragments := item.SearchFragments(); len(fragments) > 0 {
		return fragments[0]
	}
	return "(untitled)"
}
