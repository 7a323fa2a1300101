package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	Filter      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	FacetName   lipgloss.Style
	FacetFocus  lipgloss.Style
	Tag         lipgloss.Style
	TagSelected lipgloss.Style
	TagCursor   lipgloss.Style
	Summary     lipgloss.Style
	Item        lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		FacetName:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		FacetFocus:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Tag:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		TagSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		TagCursor:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Summary:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
	}
}
