package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen in the TUI (dictionary, stories).
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// Closer is implemented by pages that must release state when they are left.
// Init is called again when the page is re-entered.
type Closer interface {
	Close()
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
