package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flipbook/internal/book"
	"github.com/tinytelemetry/flipbook/internal/model"
	"github.com/tinytelemetry/flipbook/internal/prefs"
)

// shelfLoadedMsg delivers the result of Source.Load.
type shelfLoadedMsg struct {
	page  string
	shelf Shelf
	err   error
}

// flipDoneMsg fires when a page turn's duration has elapsed.
type flipDoneMsg struct {
	page   string
	ticket book.Ticket
}

// frameMsg redraws a page turn in flight.
type frameMsg struct {
	page   string
	ticket book.Ticket
}

// statsLoadedMsg delivers category counts for the stats modal.
type statsLoadedMsg struct {
	page   string
	counts []model.CategoryCount
	err    error
}

// BookPageConfig tunes a BookPage.
type BookPageConfig struct {
	FlipDuration  time.Duration
	FrameInterval time.Duration
	Keys          KeyMap
	Session       *Session
	// NextPage is the page Tab switches to. Empty disables switching.
	NextPage string
	// Now is the clock used for animation progress. Defaults to time.Now.
	Now func() time.Time
}

// BookPage shows a Source as a two-page spread with animated page turns.
type BookPage struct {
	source Source
	cfg    BookPageConfig

	shelf  Shelf
	volume int
	book   *book.Book

	search    textinput.Model
	searching bool
	query     string

	modals []Modal

	loading    bool
	err        error
	lastSpread int
	width      int
	height     int
}

// NewBookPage builds a page for source. Saved prefs restore the last query,
// story and spread.
func NewBookPage(source Source, cfg BookPageConfig) *BookPage {
	if cfg.FlipDuration <= 0 {
		cfg.FlipDuration = model.DefaultFlipDuration
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = model.DefaultFrameInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "search words, definitions, examples..."
	ti.Prompt = "/ "
	ti.CharLimit = 128

	p := &BookPage{
		source: source,
		cfg:    cfg,
		search: ti,
		book:   book.New(nil, book.WithDuration(cfg.FlipDuration)),
	}

	saved := cfg.Session.Prefs()
	if source.Searchable() {
		p.query = strings.TrimSpace(saved.LastQuery)
		p.search.SetValue(p.query)
	}
	if saved.LastBook == source.ID() {
		p.lastSpread = saved.LastSpread
	}
	return p
}

func (p *BookPage) ID() string { return p.source.ID() }

// Init reopens the book and loads the source. It runs on every page entry.
// The same book is reused so completions scheduled before the last Close
// cannot match a new turn.
func (p *BookPage) Init() tea.Cmd {
	if p.book.Closed() {
		p.book.Reopen()
	}
	p.loading = true
	return p.loadCmd()
}

func (p *BookPage) loadCmd() tea.Cmd {
	id, src := p.ID(), p.source
	return func() tea.Msg {
		shelf, err := src.Load()
		return shelfLoadedMsg{page: id, shelf: shelf, err: err}
	}
}

func (p *BookPage) flipCmds(f book.Flip) tea.Cmd {
	id := p.ID()
	done := tea.Tick(f.Duration, func(time.Time) tea.Msg {
		return flipDoneMsg{page: id, ticket: f.Ticket}
	})
	return tea.Batch(done, p.frameCmd(f.Ticket))
}

func (p *BookPage) frameCmd(t book.Ticket) tea.Cmd {
	id := p.ID()
	return tea.Tick(p.cfg.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{page: id, ticket: t}
	})
}

// Close tears the page down. A turn in flight is revoked and its pending
// completion will be ignored.
func (p *BookPage) Close() {
	if !p.book.Closed() {
		p.lastSpread = p.book.Spread()
		p.remember()
	}
	p.book.Close()
	p.modals = nil
	p.searching = false
	p.search.Blur()
}

// Book exposes the page's book for inspection.
func (p *BookPage) Book() *book.Book { return p.book }

// Query returns the active search query.
func (p *BookPage) Query() string { return p.query }

func (p *BookPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		return nil, nil

	case shelfLoadedMsg:
		if msg.page != p.ID() {
			return nil, nil
		}
		p.applyShelf(msg.shelf, msg.err)
		return nil, nil

	case flipDoneMsg:
		if msg.page != p.ID() {
			return nil, nil
		}
		if _, ok := p.book.Complete(msg.ticket); ok {
			p.remember()
		}
		return nil, nil

	case frameMsg:
		if msg.page == p.ID() && p.book.InFlight(msg.ticket) {
			return p.frameCmd(msg.ticket), nil
		}
		return nil, nil

	case statsLoadedMsg:
		if msg.page != p.ID() {
			return nil, nil
		}
		if msg.err != nil {
			p.err = fmt.Errorf("category stats: %w", msg.err)
			return nil, nil
		}
		var total int64
		for _, c := range msg.counts {
			total += c.Count
		}
		p.pushModal(NewStatsModal(msg.counts, total))
		return nil, nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.MouseMsg:
		if top := p.topModal(); top != nil {
			pop, cmd := top.Update(msg)
			if pop {
				p.popModal()
			}
			return cmd, nil
		}
	}
	return nil, nil
}

func (p *BookPage) applyShelf(shelf Shelf, err error) {
	p.loading = false
	if err != nil {
		p.err = err
		return
	}
	p.err = nil
	p.shelf = shelf
	if !p.source.Searchable() {
		p.volume = volumeIndex(shelf, p.cfg.Session.Prefs().LastStory)
	}
	if p.volume >= len(shelf.Volumes()) {
		p.volume = 0
	}
	p.reloadPages()
	p.book.JumpTo(prefs.ClampSpread(p.lastSpread, p.book.SpreadCount()))
}

// reloadPages replaces the book's pages. The book returns to spread 0 and any
// turn in flight is revoked.
func (p *BookPage) reloadPages() {
	if p.shelf == nil {
		return
	}
	pages, kind := p.shelf.Pages(p.volume, p.query)
	p.book.SetEntries(pages, kind)
}

func (p *BookPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	keys := p.cfg.Keys

	if key.Matches(msg, keys.ForceQuit) {
		p.Close()
		return tea.Quit, nil
	}

	if top := p.topModal(); top != nil {
		pop, cmd := top.Update(msg)
		if pop {
			p.popModal()
		}
		return cmd, nil
	}

	if p.searching {
		return p.handleSearchKey(msg), nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		p.Close()
		return tea.Quit, nil

	case key.Matches(msg, keys.Next):
		if f, ok := p.book.Next(p.cfg.Now()); ok {
			return p.flipCmds(f), nil
		}

	case key.Matches(msg, keys.Prev):
		if f, ok := p.book.Prev(p.cfg.Now()); ok {
			return p.flipCmds(f), nil
		}

	case key.Matches(msg, keys.First):
		if p.book.JumpTo(0) {
			p.remember()
		}

	case key.Matches(msg, keys.Last):
		if p.book.JumpTo(p.book.SpreadCount() - 1) {
			p.remember()
		}

	case key.Matches(msg, keys.Search):
		if p.source.Searchable() {
			p.searching = true
			return p.search.Focus(), nil
		}

	case key.Matches(msg, keys.Escape):
		if p.query != "" {
			p.search.SetValue("")
			p.setQuery("")
		}
		p.err = nil

	case key.Matches(msg, keys.Help):
		p.pushModal(NewHelpModal(keys))

	case key.Matches(msg, keys.Inspect):
		if left, ok := p.book.Deck().Left(); ok && !p.book.Animating() {
			if _, isPlaceholder := book.IsPlaceholder(left); !isPlaceholder {
				title, body := detailBody(left)
				p.pushModal(NewDetailModal(title, body))
			}
		}

	case key.Matches(msg, keys.Stats):
		if stats, ok := p.source.(StatsSource); ok {
			id := p.ID()
			return func() tea.Msg {
				counts, err := stats.CategoryCounts()
				return statsLoadedMsg{page: id, counts: counts, err: err}
			}, nil
		}

	case key.Matches(msg, keys.NextVolume):
		p.stepVolume(1)

	case key.Matches(msg, keys.PrevVolume):
		p.stepVolume(-1)

	case key.Matches(msg, keys.Reload):
		if !p.book.Animating() {
			p.lastSpread = p.book.Spread()
			p.loading = true
			return p.loadCmd(), nil
		}

	case key.Matches(msg, keys.SwitchBook):
		if p.cfg.NextPage != "" && p.cfg.NextPage != p.ID() {
			return nil, &PageNav{PageID: p.cfg.NextPage}
		}
	}
	return nil, nil
}

func (p *BookPage) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "escape", "enter":
		p.searching = false
		p.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if v := p.search.Value(); v != p.query {
		p.setQuery(v)
	}
	return cmd
}

// setQuery re-ranks the cached entries and returns to the first spread.
func (p *BookPage) setQuery(q string) {
	p.query = q
	p.reloadPages()
	p.remember()
}

func (p *BookPage) stepVolume(delta int) {
	if p.shelf == nil {
		return
	}
	n := len(p.shelf.Volumes())
	if n < 2 {
		return
	}
	p.volume = (p.volume + delta + n) % n
	p.reloadPages()
	p.remember()
}

func (p *BookPage) remember() {
	id, spread := p.ID(), p.book.Spread()
	searchable := p.source.Searchable()
	query := p.query
	story := ""
	if !searchable && p.shelf != nil {
		story = volumeKey(p.shelf, p.volume)
	}
	p.cfg.Session.update(func(pr *prefs.Prefs) {
		pr.LastBook = id
		pr.LastSpread = spread
		if searchable {
			pr.LastQuery = query
		} else if story != "" {
			pr.LastStory = story
		}
	})
}

func (p *BookPage) pushModal(m Modal) {
	for _, existing := range p.modals {
		if existing.ID() == m.ID() {
			return
		}
	}
	p.modals = append(p.modals, m)
}

func (p *BookPage) popModal() {
	if len(p.modals) > 0 {
		p.modals = p.modals[:len(p.modals)-1]
	}
}

func (p *BookPage) topModal() Modal {
	if len(p.modals) == 0 {
		return nil
	}
	return p.modals[len(p.modals)-1]
}

func (p *BookPage) View(width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	if top := p.topModal(); top != nil {
		return top.View(width, height)
	}

	header := p.renderHeader(width)
	status := p.renderStatusLine(width)
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(status), 5)

	var body string
	switch {
	case p.loading && p.shelf == nil:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(ColorGray).Render("Loading..."))
	case p.err != nil && p.shelf == nil:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(ColorRed).Render(p.err.Error()))
	default:
		progress := p.book.Progress(p.cfg.Now())
		body = renderSpread(p.book.Surfaces(), progress, width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (p *BookPage) renderHeader(width int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(p.source.Title())
	if p.shelf != nil && !p.source.Searchable() {
		vols := p.shelf.Volumes()
		if p.volume < len(vols) {
			title += lipgloss.NewStyle().Foreground(ColorGray).
				Render(fmt.Sprintf("  %s (%d/%d)", vols[p.volume], p.volume+1, len(vols)))
		}
	}

	line := title
	if p.source.Searchable() {
		if p.searching || p.query != "" {
			p.search.Width = max(width-lipgloss.Width(title)-6, 10)
			line = lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", p.search.View())
		}
	}
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(line)
}

func (p *BookPage) renderStatusLine(width int) string {
	muted := lipgloss.NewStyle().Foreground(ColorGray)

	parts := []string{fmt.Sprintf("spread %d / %d", p.book.Spread()+1, p.book.SpreadCount())}
	if p.source.Searchable() && p.query != "" {
		n := 0
		if !p.book.Deck().IsPlaceholder() {
			n = p.book.Deck().Len()
		}
		parts = append(parts, fmt.Sprintf("%d matches", n))
	}
	if p.book.Animating() {
		parts = append(parts, "turning...")
	}
	if p.loading && p.shelf != nil {
		parts = append(parts, "reloading...")
	}

	left := strings.Join(parts, " · ")
	if p.err != nil && p.shelf != nil {
		left += "  " + lipgloss.NewStyle().Foreground(ColorRed).Render(p.err.Error())
	}

	hints := "←/→ turn · / search · enter details · ? help · q quit"
	if !p.source.Searchable() {
		hints = "←/→ turn · [/] story · enter details · ? help · q quit"
	}
	if p.searching {
		hints = "type to search · enter/esc done"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(hints)
	if gap < 1 {
		return muted.Width(width).MaxHeight(1).Render(left)
	}
	return muted.Render(left + strings.Repeat(" ", gap) + hints)
}
