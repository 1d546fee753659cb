package duckdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/tinytelemetry/flipbook/internal/model"
	"github.com/tinytelemetry/flipbook/internal/search"
)

// ErrEntryNotFound is returned by GetEntry when no entry has the given id.
var ErrEntryNotFound = model.ErrEntryNotFound

const entryColumns = `id, position, word, definition, example, category, phonetic,
	CAST(synonyms AS VARCHAR), CAST(antonyms AS VARCHAR), updated_at`

// InsertEntries upserts entries by id in a single transaction. New ids are
// appended after the current last position; existing ids keep their position.
func (s *Store) InsertEntries(entries []DictionaryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var next sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(position) FROM entries").Scan(&next); err != nil {
		return fmt.Errorf("read max position: %w", err)
	}
	pos := 0
	if next.Valid {
		pos = int(next.Int64) + 1
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, position, word, definition, example, category, phonetic, synonyms, antonyms, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, current_timestamp)
		ON CONFLICT (id) DO UPDATE SET
			word = excluded.word,
			definition = excluded.definition,
			example = excluded.example,
			category = excluded.category,
			phonetic = excluded.phonetic,
			synonyms = excluded.synonyms,
			antonyms = excluded.antonyms,
			updated_at = current_timestamp`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry %q has no id", e.Word)
		}
		syn, err := encodeList(e.Synonyms)
		if err != nil {
			return fmt.Errorf("encode synonyms for %s: %w", e.ID, err)
		}
		ant, err := encodeList(e.Antonyms)
		if err != nil {
			return fmt.Errorf("encode antonyms for %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, pos, e.Word, e.Definition, e.Example,
			e.Category, e.Phonetic, syn, ant); err != nil {
			return fmt.Errorf("upsert %s: %w", e.ID, err)
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// AllEntries returns every entry in insertion order.
func (s *Store) AllEntries() ([]DictionaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT "+entryColumns+" FROM entries ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]DictionaryEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Printf("duckdb scan error (AllEntries): %v", err)
			continue
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// GetEntry returns the entry with the given id or ErrEntryNotFound.
func (s *Store) GetEntry(id string) (DictionaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DictionaryEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return DictionaryEntry{}, err
	}
	return e, nil
}

// TotalEntryCount returns the number of stored entries.
func (s *Store) TotalEntryCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// CategoryCounts returns the number of entries per category, largest first.
// Entries without a category are counted as "uncategorized".
func (s *Store) CategoryCounts() ([]CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'uncategorized') AS cat, COUNT(*) AS count
		FROM entries
		GROUP BY cat
		ORDER BY count DESC, cat ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]CategoryCount, 0)
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			log.Printf("duckdb scan error (CategoryCounts): %v", err)
			continue
		}
		results = append(results, cc)
	}
	return results, rows.Err()
}

// SearchEntries ranks all entries against query and returns at most limit
// of them. A non-positive limit returns every match.
func (s *Store) SearchEntries(query string, limit int) ([]DictionaryEntry, error) {
	all, err := s.AllEntries()
	if err != nil {
		return nil, err
	}
	ranked := search.Rank(query, all)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (DictionaryEntry, error) {
	var e DictionaryEntry
	var syn, ant sql.NullString
	if err := r.Scan(&e.ID, &e.Position, &e.Word, &e.Definition, &e.Example,
		&e.Category, &e.Phonetic, &syn, &ant, &e.UpdatedAt); err != nil {
		return DictionaryEntry{}, err
	}
	var err error
	if e.Synonyms, err = decodeList(syn); err != nil {
		return DictionaryEntry{}, fmt.Errorf("decode synonyms for %s: %w", e.ID, err)
	}
	if e.Antonyms, err = decodeList(ant); err != nil {
		return DictionaryEntry{}, fmt.Errorf("decode antonyms for %s: %w", e.ID, err)
	}
	return e, nil
}

func encodeList(items []string) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" || raw.String == "null" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw.String), &items); err != nil {
		return nil, err
	}
	return items, nil
}
