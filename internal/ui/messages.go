package ui

import (
	"facetgrip/internal/domain"
)

// ResultMsg carries a published filter result into the program
type ResultMsg struct {
	Result domain.Result
}

// ItemsChangedMsg reports that the collection was reloaded
type ItemsChangedMsg struct {
	Source string
}

// ErrorMsg reports a background failure to the status line
type ErrorMsg struct {
	Message string
	Err     error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// pauseRenderingMsg signals that an external pager owns the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals that the terminal was handed back
type resumeRenderingMsg struct{}
