package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is a self-contained modal that owns its own Update/View lifecycle.
// Modals are managed via a stack on BookPage; the topmost modal receives
// all key input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// scrollModal is the shared body of the viewport-backed modals.
type scrollModal struct {
	id       string
	title    string
	status   string
	closeKey string
	viewport viewport.Model
	content  func(width int) string
}

func newScrollModal(id, title, closeKey string, content func(width int) string) *scrollModal {
	status := "up/down/Wheel: Scroll | PgUp/PgDn: Page | ESC: Close"
	if closeKey != "" {
		status = "up/down/Wheel: Scroll | PgUp/PgDn: Page | " + closeKey + ": Toggle | ESC: Close"
	}
	return &scrollModal{
		id:       id,
		title:    title,
		status:   status,
		closeKey: closeKey,
		viewport: viewport.New(80, 20),
		content:  content,
	}
}

func (m *scrollModal) ID() string { return m.id }

func (m *scrollModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			m.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			m.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			m.viewport.HalfPageDown()
			return false, nil
		case "escape", "esc", "q":
			return true, nil
		}
		if m.closeKey != "" && msg.String() == m.closeKey {
			return true, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				m.viewport.ScrollDown(1)
			}
		}
		return false, nil
	}
	return false, nil
}

func (m *scrollModal) View(width, height int) string {
	modalWidth := max(width-8, 20)
	modalHeight := max(height-4, 8)

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.viewport.SetContent(m.content(contentWidth))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(m.viewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render(m.title)

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(m.status)

	body := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// HelpModal lists the key bindings.
type HelpModal struct{ *scrollModal }

// NewHelpModal builds the help modal from keys.
func NewHelpModal(keys KeyMap) *HelpModal {
	return &HelpModal{newScrollModal("help", "Help", "?", func(width int) string {
		return renderHelpContent(keys, width)
	})}
}

func renderHelpContent(keys KeyMap, width int) string {
	sections := []struct {
		title    string
		bindings []KeyBindingHelp
	}{
		{"TURNING PAGES", helpFor(keys.Next, keys.Prev, keys.First, keys.Last)},
		{"BOOK", helpFor(keys.Search, keys.Inspect, keys.Stats, keys.PrevVolume, keys.NextVolume, keys.SwitchBook, keys.Reload)},
		{"GENERAL", helpFor(keys.Help, keys.Escape, keys.Quit, keys.ForceQuit)},
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(14)
	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(sec.title))
		b.WriteString("\n")
		for _, h := range sec.bindings {
			b.WriteString("  " + keyStyle.Render(h.Key) + h.Desc + "\n")
		}
	}
	b.WriteString("\nA page turn in progress ignores further turns until it lands.\n")
	b.WriteString("Search ranks exact words first, then prefixes, word starts,\nsubstrings, and finally matches in definitions or examples.\n")
	return lipgloss.NewStyle().Width(min(width, 72)).Render(b.String())
}

// KeyBindingHelp is one row of the help modal.
type KeyBindingHelp struct {
	Key  string
	Desc string
}

func helpFor(bindings ...key.Binding) []KeyBindingHelp {
	out := make([]KeyBindingHelp, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBindingHelp{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// DetailModal shows one page in full.
type DetailModal struct{ *scrollModal }

// NewDetailModal builds a detail modal with a pre-rendered body.
func NewDetailModal(title string, body func(width int) string) *DetailModal {
	return &DetailModal{newScrollModal("detail", title, "enter", body)}
}
