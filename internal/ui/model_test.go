package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facetgrip/internal/controller"
	"facetgrip/internal/domain"
)

type selectCall struct {
	id    domain.FacetID
	value string
}

type fakeController struct {
	searches     []string
	cleared      int
	selects      []selectCall
	clearedFacet []domain.FacetID
	resets       int
	reinits      int
	facets       []controller.FacetInfo
	state        domain.Result
}

func (f *fakeController) SetSearchDebounced(term string) { f.searches = append(f.searches, term) }
func (f *fakeController) ClearSearch()                   { f.cleared++ }
func (f *fakeController) SelectTag(id domain.FacetID, value string) {
	f.selects = append(f.selects, selectCall{id, value})
}
func (f *fakeController) ClearFacet(id domain.FacetID)   { f.clearedFacet = append(f.clearedFacet, id) }
func (f *fakeController) Reset()                         { f.resets++ }
func (f *fakeController) Reinitialize()                  { f.reinits++ }
func (f *fakeController) GetState() domain.Result        { return f.state }
func (f *fakeController) Facets() []controller.FacetInfo { return f.facets }

type staticItems []domain.Item

func (s staticItems) Items() []domain.Item { return s }

func newTestModel() (*Model, *fakeController) {
	ctrl := &fakeController{
		facets: []controller.FacetInfo{
			{ID: 0, Control: domain.FacetControl{Key: "color", Name: "Color", Tags: []domain.TagControl{
				{Value: "blue", Label: "Blue"}, {Value: "red"},
			}}},
			{ID: 1, Control: domain.FacetControl{Key: "kind", Name: "Kind", Tags: []domain.TagControl{{Value: "widget"}}}},
		},
		state: domain.Result{VisibleCount: 2, TotalCount: 2},
	}
	items := staticItems{&stubItem{"Blue Widget"}, &stubItem{"Red Widget"}}
	return NewModel(ctrl, items, NewHost()), ctrl
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestTypingSchedulesDebouncedSearch(t *testing.T) {
	m, ctrl := newTestModel()

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})

	assert.Equal(t, []string{"w", "wi"}, ctrl.searches)
	assert.Equal(t, "wi", m.input.Value())
}

func TestEscClearsSearchImmediately(t *testing.T) {
	m, ctrl := newTestModel()
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	ctrl.state = domain.Result{VisibleCount: 2, TotalCount: 2}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, 1, ctrl.cleared)
	assert.Empty(t, m.input.Value())
}

func TestFacetNavigationAndToggle(t *testing.T) {
	m, ctrl := newTestModel()

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyEnter}) // cursor wraps to the first tag

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyTab}) // wraps back to the first facet
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})

	assert.Equal(t, []selectCall{{0, "blue"}, {0, "red"}, {0, "blue"}, {1, "widget"}}, ctrl.selects)
	assert.Equal(t, 1, m.focus)
}

func TestClearFacetResetAndReload(t *testing.T) {
	m, ctrl := newTestModel()

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, []domain.FacetID{1}, ctrl.clearedFacet)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 1, ctrl.resets)
	assert.Empty(t, m.input.Value())

	ctrl.facets = ctrl.facets[:1]
	press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, 1, ctrl.reinits)
	assert.Equal(t, 0, m.focus, "focus is clamped to the remaining facets")
	assert.Equal(t, "catalog reloaded", m.status)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()
	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpWithoutProgramReportsError(t *testing.T) {
	m, _ := newTestModel()
	cmd := press(m, tea.KeyMsg{Type: tea.KeyF1})
	require.NotNil(t, cmd)

	m.Update(cmd())
	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "program not set")
}

func TestResultAndErrorMessages(t *testing.T) {
	m, _ := newTestModel()

	m.Update(ResultMsg{Result: domain.Result{SearchTerm: "blue", VisibleCount: 1, TotalCount: 2}})
	assert.Equal(t, 1, m.result.VisibleCount)

	m.Update(ErrorMsg{Message: "collection refresh failed", Err: errors.New("boom")})
	assert.Equal(t, "collection refresh failed: boom", m.status)
	assert.True(t, m.statusIsErr)
}

func TestViewRendersVisibleItems(t *testing.T) {
	m, _ := newTestModel()
	items := m.items.Items()
	m.host.Show(items[0])
	m.host.SetSelected(0, "blue", true)
	m.host.SetSummary(0, "Blue", true)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(ResultMsg{Result: domain.Result{VisibleCount: 1, TotalCount: 2}})

	out := m.View()
	assert.Contains(t, out, "Blue Widget")
	assert.NotContains(t, out, "Red Widget")
	assert.Contains(t, out, "[Blue]")
	assert.Contains(t, out, "1 of 2 items")
}

func TestViewIsBlankInPagerMode(t *testing.T) {
	m, _ := newTestModel()
	m.Update(pauseRenderingMsg{})
	assert.Empty(t, m.View())
	m.Update(resumeRenderingMsg{})
	assert.NotEmpty(t, m.View())
}

func TestRenderHelpContentListsBindings(t *testing.T) {
	content := RenderHelpContent(defaultKeyMap())
	for _, want := range []string{"Search", "Facets", "ctrl+r", "reset", "toggle tag", "f1"} {
		assert.Contains(t, content, want)
	}
}
