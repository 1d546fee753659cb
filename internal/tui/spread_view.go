package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flipbook/internal/book"
	"github.com/tinytelemetry/flipbook/internal/content"
)

func pageStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)
}

func turningStyle() lipgloss.Style {
	return pageStyle().BorderForeground(ColorBlue)
}

// spreadLayers groups the surfaces of one frame by role.
type spreadLayers struct {
	static       map[book.Side]book.Entry
	underneath   *book.Entry
	turningFront *book.Entry
	turningBack  *book.Entry
	turningSide  book.Side
}

func layersOf(surfaces []book.Surface) spreadLayers {
	l := spreadLayers{static: make(map[book.Side]book.Entry, 2)}
	for _, s := range surfaces {
		switch s.Role {
		case book.RoleStatic:
			l.static[s.Side] = s.Content
		case book.RoleUnderneath:
			c := s.Content
			l.underneath = &c
		case book.RoleTurning:
			c := s.Content
			l.turningSide = s.Side
			if s.Facing == book.FacingFront {
				l.turningFront = &c
			} else {
				l.turningBack = &c
			}
		}
	}
	return l
}

// renderSpread draws the surfaces of one frame into a width x height block.
// progress is the rotation of the turn in flight; it is ignored while idle.
func renderSpread(surfaces []book.Surface, progress float64, width, height int) string {
	half := max(width/2, 6)
	l := layersOf(surfaces)

	if l.turningFront == nil && l.turningBack == nil {
		left := renderPage(entryPtr(l.static, book.SideLeft), half, height, pageStyle())
		right := renderPage(entryPtr(l.static, book.SideRight), half, height, pageStyle())
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	// The turning page is hinged at the spine. Its visible width shrinks to
	// nothing at 90 degrees, then grows again over the opposite half.
	angle := book.TurnAngle(progress)
	foreshortened := math.Abs(math.Cos(angle * math.Pi / 180))
	tw := int(math.Round(float64(half) * foreshortened))

	turningSide := l.turningSide
	otherSide := book.SideLeft
	if turningSide == book.SideLeft {
		otherSide = book.SideRight
	}

	var turningHalf, otherHalf string
	if book.VisibleFacing(progress) == book.FacingFront {
		// Front face still over its own half, revealing the page underneath.
		turningHalf = hinge(turningSide,
			renderPage(l.turningFront, tw, height, turningStyle()),
			renderPage(l.underneath, half-tw, height, pageStyle()))
		otherHalf = renderPage(entryPtr(l.static, otherSide), half, height, pageStyle())
	} else {
		// Back face now over the opposite half, covering the static page.
		turningHalf = renderPage(l.underneath, half, height, pageStyle())
		otherHalf = hinge(otherSide,
			renderPage(l.turningBack, tw, height, turningStyle()),
			renderPage(entryPtr(l.static, otherSide), half-tw, height, pageStyle()))
	}

	if turningSide == book.SideRight {
		return lipgloss.JoinHorizontal(lipgloss.Top, otherHalf, turningHalf)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, turningHalf, otherHalf)
}

// hinge joins a page attached at the spine with what lies outside it.
// On the right half the spine is the left edge; on the left half, the right.
func hinge(side book.Side, atSpine, outer string) string {
	if side == book.SideRight {
		return lipgloss.JoinHorizontal(lipgloss.Top, atSpine, outer)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, outer, atSpine)
}

func entryPtr(m map[book.Side]book.Entry, side book.Side) *book.Entry {
	e, ok := m[side]
	if !ok {
		return nil
	}
	return &e
}

// renderPage draws one page box. A nil entry is a blank sheet; widths too
// narrow for a border collapse to nothing.
func renderPage(e *book.Entry, width, height int, style lipgloss.Style) string {
	if width < 4 || height < 3 {
		if width <= 0 {
			return ""
		}
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}
	inner := width - style.GetHorizontalFrameSize()
	body := ""
	if e != nil && inner > 0 {
		body = renderPageBody(*e, inner)
	}
	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Height(height - style.GetVerticalBorderSize()).
		MaxHeight(height).
		Render(body)
}

func renderPageBody(e book.Entry, width int) string {
	muted := lipgloss.NewStyle().Foreground(ColorGray)

	if kind, ok := book.IsPlaceholder(e); ok {
		msg := "This book has no pages yet."
		if kind == book.PlaceholderNoResults {
			msg = "No entries match your search."
		}
		return muted.Italic(true).Width(width).Render(msg)
	}

	if entry, ok := content.EntryOf(e); ok {
		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(entry.Word))
		if entry.Phonetic != "" {
			b.WriteString(" " + muted.Render(entry.Phonetic))
		}
		b.WriteString("\n")
		if entry.Category != "" {
			b.WriteString(muted.Render("["+entry.Category+"]") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(entry.Definition)
		if entry.Example != "" {
			b.WriteString("\n\n" + lipgloss.NewStyle().Italic(true).Render("“"+entry.Example+"”"))
		}
		if len(entry.Synonyms) > 0 {
			b.WriteString("\n\n" + muted.Render("syn: ") + strings.Join(entry.Synonyms, ", "))
		}
		if len(entry.Antonyms) > 0 {
			b.WriteString("\n" + muted.Render("ant: ") + strings.Join(entry.Antonyms, ", "))
		}
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	if page, ok := content.PageOf(e); ok {
		var b strings.Builder
		if page.Title != "" {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(page.Title))
			b.WriteString("\n\n")
		}
		b.WriteString(page.Text)
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	return muted.Render(e.ID)
}

// detailBody renders a page for the detail modal.
func detailBody(e book.Entry) (string, func(width int) string) {
	if entry, ok := content.EntryOf(e); ok {
		return entry.Word, func(width int) string {
			body := renderPageBody(e, width)
			if !entry.UpdatedAt.IsZero() {
				body += "\n\n" + lipgloss.NewStyle().Foreground(ColorGray).
					Render("id "+entry.ID+" · updated "+entry.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return body
		}
	}
	if page, ok := content.PageOf(e); ok {
		title := page.Title
		if title == "" {
			title = "Page"
		}
		return title, func(width int) string { return renderPageBody(e, width) }
	}
	return "Page", func(width int) string { return renderPageBody(e, width) }
}
