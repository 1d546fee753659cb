// Package content turns dictionary entries and story files into book pages.
package content

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tinytelemetry/flipbook/internal/book"
	"github.com/tinytelemetry/flipbook/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrNoStories is returned when a story file parses but holds no stories.
var ErrNoStories = errors.New("content: no stories found")

// Story is a titled sequence of pages browsed with the same flip engine as
// the dictionary.
type Story struct {
	ID    string      `yaml:"id"`
	Title string      `yaml:"title"`
	Pages []StoryPage `yaml:"pages"`
}

// StoryPage is one page of a story.
type StoryPage struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type storyFile struct {
	Stories []Story `yaml:"stories"`
}

// DictionaryPages wraps entries as book pages in the given order.
func DictionaryPages(entries []model.DictionaryEntry) []book.Entry {
	pages := make([]book.Entry, len(entries))
	for i, e := range entries {
		pages[i] = book.Entry{ID: e.ID, Payload: e}
	}
	return pages
}

// EntryOf returns the dictionary entry carried by a page, if any.
func EntryOf(p book.Entry) (model.DictionaryEntry, bool) {
	e, ok := p.Payload.(model.DictionaryEntry)
	return e, ok
}

// LoadStories reads a YAML story file. The file is either a list of stories
// or a mapping with a "stories" key. Stories without pages are skipped and
// stories without an id are numbered in file order.
func LoadStories(path string) ([]Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stories: %w", err)
	}
	return ParseStories(data)
}

// ParseStories decodes story YAML. See LoadStories.
func ParseStories(data []byte) ([]Story, error) {
	var raw []Story
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var wrapped storyFile
		if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse stories: %w", err)
		}
		raw = wrapped.Stories
	}

	stories := make([]Story, 0, len(raw))
	for i, s := range raw {
		if len(s.Pages) == 0 {
			continue
		}
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			s.ID = fmt.Sprintf("story-%d", i+1)
		}
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			s.Title = s.ID
		}
		stories = append(stories, s)
	}
	if len(stories) == 0 {
		return nil, ErrNoStories
	}
	return stories, nil
}

// StoryPages wraps a story's pages as book pages with StoryPage payloads.
func StoryPages(s Story) []book.Entry {
	pages := make([]book.Entry, len(s.Pages))
	for i, p := range s.Pages {
		pages[i] = book.Entry{ID: fmt.Sprintf("%s/%d", s.ID, i+1), Payload: p}
	}
	return pages
}

// PageOf returns the story page carried by a book page, if any.
func PageOf(p book.Entry) (StoryPage, bool) {
	sp, ok := p.Payload.(StoryPage)
	return sp, ok
}
