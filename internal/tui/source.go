package tui

import (
	"strings"

	"github.com/tinytelemetry/flipbook/internal/book"
	"github.com/tinytelemetry/flipbook/internal/content"
	"github.com/tinytelemetry/flipbook/internal/model"
	"github.com/tinytelemetry/flipbook/internal/prefs"
	"github.com/tinytelemetry/flipbook/internal/search"
)

// Source supplies the pages of a BookPage.
type Source interface {
	ID() string
	Title() string
	Searchable() bool
	// Load fetches the source's data. It runs inside a tea.Cmd, off the
	// UI goroutine, and must not touch page state.
	Load() (Shelf, error)
}

// Shelf is an immutable snapshot returned by Source.Load.
type Shelf interface {
	// Volumes names the books on the shelf. Always at least one.
	Volumes() []string
	// Pages returns the pages of volume filtered by query, and the
	// placeholder kind to show when there are none.
	Pages(volume int, query string) ([]book.Entry, book.PlaceholderKind)
}

// StatsSource is implemented by sources that can report category counts.
type StatsSource interface {
	CategoryCounts() ([]model.CategoryCount, error)
}

// DictionarySource reads dictionary entries from a DictionaryReader.
type DictionarySource struct {
	reader model.DictionaryReader
}

// NewDictionarySource wraps reader.
func NewDictionarySource(reader model.DictionaryReader) *DictionarySource {
	return &DictionarySource{reader: reader}
}

func (s *DictionarySource) ID() string       { return prefs.BookDictionary }
func (s *DictionarySource) Title() string    { return "Dictionary" }
func (s *DictionarySource) Searchable() bool { return true }

// Load fetches the full entry list once; searches rank the cached copy.
func (s *DictionarySource) Load() (Shelf, error) {
	entries, err := s.reader.AllEntries()
	if err != nil {
		return nil, err
	}
	return dictionaryShelf{entries: entries}, nil
}

func (s *DictionarySource) CategoryCounts() ([]model.CategoryCount, error) {
	return s.reader.CategoryCounts()
}

type dictionaryShelf struct {
	entries []model.DictionaryEntry
}

func (d dictionaryShelf) Volumes() []string { return []string{"Dictionary"} }

func (d dictionaryShelf) Pages(_ int, query string) ([]book.Entry, book.PlaceholderKind) {
	kind := book.PlaceholderEmpty
	if strings.TrimSpace(query) != "" {
		kind = book.PlaceholderNoResults
	}
	return content.DictionaryPages(search.Rank(query, d.entries)), kind
}

// StorySource reads story books from a YAML file.
type StorySource struct {
	path string
}

// NewStorySource reads stories from path on every Load.
func NewStorySource(path string) *StorySource {
	return &StorySource{path: path}
}

func (s *StorySource) ID() string       { return prefs.BookStories }
func (s *StorySource) Title() string    { return "Stories" }
func (s *StorySource) Searchable() bool { return false }

func (s *StorySource) Load() (Shelf, error) {
	stories, err := content.LoadStories(s.path)
	if err != nil {
		return nil, err
	}
	return storyShelf{stories: stories}, nil
}

type storyShelf struct {
	stories []content.Story
}

func (s storyShelf) Volumes() []string {
	titles := make([]string, len(s.stories))
	for i, st := range s.stories {
		titles[i] = st.Title
	}
	return titles
}

func (s storyShelf) Pages(volume int, _ string) ([]book.Entry, book.PlaceholderKind) {
	if volume < 0 || volume >= len(s.stories) {
		return nil, book.PlaceholderEmpty
	}
	return content.StoryPages(s.stories[volume]), book.PlaceholderEmpty
}

// volumeIndex finds the volume whose story id or title is name.
func volumeIndex(shelf Shelf, name string) int {
	if ss, ok := shelf.(storyShelf); ok {
		for i, st := range ss.stories {
			if st.ID == name {
				return i
			}
		}
	}
	for i, v := range shelf.Volumes() {
		if v == name {
			return i
		}
	}
	return 0
}

// volumeKey is the name persisted for a volume, preferring story ids.
func volumeKey(shelf Shelf, volume int) string {
	if ss, ok := shelf.(storyShelf); ok && volume >= 0 && volume < len(ss.stories) {
		return ss.stories[volume].ID
	}
	vols := shelf.Volumes()
	if volume >= 0 && volume < len(vols) {
		return vols[volume]
	}
	return ""
}
