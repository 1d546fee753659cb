// Package ingest loads dictionary seed files and imports them into a store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tinytelemetry/flipbook/internal/model"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateID is returned when two seed entries share an id.
var ErrDuplicateID = errors.New("ingest: duplicate entry id")

// maxConcurrentFiles bounds how many seed files LoadDir parses at once.
const maxConcurrentFiles = 8

type seedFile struct {
	Entries []model.DictionaryEntry `json:"entries" yaml:"entries"`
}

// IsSeedFile reports whether path has a recognised seed extension.
func IsSeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile parses a single seed file. The file holds either a list of
// entries or a mapping with an "entries" key.
func LoadFile(path string) ([]model.DictionaryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}

	var raw []model.DictionaryEntry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err = decodeJSON(data)
	} else {
		raw, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}

	entries := Normalize(raw)
	if err := checkDuplicates(entries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func decodeJSON(data []byte) ([]model.DictionaryEntry, error) {
	var list []model.DictionaryEntry
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped seedFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Entries, nil
}

func decodeYAML(data []byte) ([]model.DictionaryEntry, error) {
	var list []model.DictionaryEntry
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped seedFile
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Entries, nil
}

// LoadDir parses every seed file in dir concurrently. Entries are returned
// in file-name order, then file order.
func LoadDir(ctx context.Context, dir string) ([]model.DictionaryEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var paths []string
	for _, item := range items {
		if item.IsDir() || !IsSeedFile(item.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, item.Name()))
	}
	sort.Strings(paths)

	results := make([][]model.DictionaryEntry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.DictionaryEntry
	for _, r := range results {
		all = append(all, r...)
	}
	if err := checkDuplicates(all); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return all, nil
}

// Load dispatches to LoadDir or LoadFile depending on what path names.
func Load(ctx context.Context, path string) ([]model.DictionaryEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat seed: %w", err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}
	return LoadFile(path)
}

// Import loads the seed at path and writes it to w. It returns the number of
// entries imported.
func Import(ctx context.Context, w model.DictionaryWriter, path string) (int, error) {
	entries, err := Load(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := w.InsertEntries(entries); err != nil {
		return 0, fmt.Errorf("insert seed entries: %w", err)
	}
	log.Printf("ingest: imported %d entries from %s", len(entries), path)
	return len(entries), nil
}

// Normalize trims fields, lower-cases categories, drops entries without a
// word and assigns entries without an id a name-based UUID derived from the
// word and definition, so re-importing the same seed updates in place.
func Normalize(raw []model.DictionaryEntry) []model.DictionaryEntry {
	out := make([]model.DictionaryEntry, 0, len(raw))
	for _, e := range raw {
		e.Word = strings.TrimSpace(e.Word)
		if e.Word == "" {
			continue
		}
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			e.Definition = strings.TrimSpace(e.Definition)
			e.ID = seedID(e)
		}
		e.Definition = strings.TrimSpace(e.Definition)
		e.Example = strings.TrimSpace(e.Example)
		e.Phonetic = strings.TrimSpace(e.Phonetic)
		e.Category = strings.ToLower(strings.TrimSpace(e.Category))
		e.Synonyms = cleanList(e.Synonyms)
		e.Antonyms = cleanList(e.Antonyms)
		out = append(out, e)
	}
	return out
}

// seedNamespace scopes generated entry ids.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tinytelemetry/flipbook/seed"))

func seedID(e model.DictionaryEntry) string {
	return uuid.NewSHA1(seedNamespace, []byte(strings.ToLower(e.Word)+"\n"+e.Definition)).String()
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func checkDuplicates(entries []model.DictionaryEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
