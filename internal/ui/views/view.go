package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TagCell is one selectable tag of a facet row
type TagCell struct {
	Label    string
	Selected bool
	Cursor   bool
}

// FacetRow is the rendered state of one facet control
type FacetRow struct {
	Name       string
	Tags       []TagCell
	Summary    string
	HasSummary bool
	Focused    bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	SearchInput   string // rendered text input
	SearchTerm    string
	Facets        []FacetRow
	Items         []string // visible items in collection order
	VisibleCount  int
	TotalCount    int
	StatusMessage string
	StatusIsError bool
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the styles used by the renderer
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(state.SearchInput)
	content.WriteString("\n\n")

	for _, row := range state.Facets {
		content.WriteString(r.renderFacet(row))
		content.WriteString("\n")
	}
	if len(state.Facets) > 0 {
		content.WriteString("\n")
	}

	headerLines := strings.Count(content.String(), "\n")
	content.WriteString(r.renderItems(state, headerLines))

	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))

	if state.HelpView != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2 // Main padding
		if availableLines <= 0 {
			availableLines = 22
		}
		if padding := availableLines - currentLines - 1; padding > 0 {
			content.WriteString(strings.Repeat("\n", padding))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return r.styles.Main.Render(content.String())
}

// renderTitle draws the logo with the active search term right-aligned
func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("facetgrip")
	if state.SearchTerm == "" {
		return logo
	}

	filterText := r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", state.SearchTerm))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(filterText)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + filterText
	}
	return logo + "  " + filterText
}

func (r *Renderer) renderFacet(row FacetRow) string {
	nameStyle := r.styles.FacetName
	marker := "  "
	if row.Focused {
		nameStyle = r.styles.FacetFocus
		marker = "▸ "
	}

	parts := make([]string, 0, len(row.Tags))
	for _, tag := range row.Tags {
		style := r.styles.Tag
		label := tag.Label
		if tag.Selected {
			style = r.styles.TagSelected
			label = "●" + label
		}
		if tag.Cursor && row.Focused {
			style = style.Inherit(r.styles.TagCursor)
		}
		parts = append(parts, style.Render(label))
	}

	line := marker + nameStyle.Render(row.Name+":") + " " + strings.Join(parts, " ")
	if row.HasSummary {
		line += "  " + r.styles.Summary.Render("["+row.Summary+"]")
	}
	return line
}

// renderItems lists the visible items, truncated to the space left on screen
func (r *Renderer) renderItems(state ViewState, headerLines int) string {
	if len(state.Items) == 0 {
		if state.TotalCount == 0 {
			return r.styles.Dim.Render("Catalog is empty.")
		}
		return r.styles.Dim.Render("No items match the current filter.")
	}

	capacity := len(state.Items)
	if state.Height > 0 {
		// padding, status and help lines
		capacity = state.Height - headerLines - 6
		if capacity < 1 {
			capacity = 1
		}
	}

	lines := make([]string, 0, capacity+1)
	for i, item := range state.Items {
		if i >= capacity {
			lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("… %d more", len(state.Items)-capacity)))
			break
		}
		lines = append(lines, r.styles.Item.Render("  "+item))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatus(state ViewState) string {
	counts := fmt.Sprintf("%d of %d items", state.VisibleCount, state.TotalCount)
	if state.StatusMessage == "" {
		return r.styles.Status.Render(counts)
	}
	msgStyle := r.styles.Status
	if state.StatusIsError {
		msgStyle = r.styles.StatusError.MarginTop(1)
	}
	return msgStyle.Render(counts + " | " + state.StatusMessage)
}
