package model

import "time"

// DictionaryEntry is a single dictionary record used across the system.
// It is the canonical type for storage, transport (socket RPC), and display.
type DictionaryEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Word       string    `json:"word" yaml:"word"`
	Definition string    `json:"definition" yaml:"definition"`
	Example    string    `json:"example,omitempty" yaml:"example"`
	Category   string    `json:"category,omitempty" yaml:"category"`
	Phonetic   string    `json:"phonetic,omitempty" yaml:"phonetic"`
	Synonyms   []string  `json:"synonyms,omitempty" yaml:"synonyms"`
	Antonyms   []string  `json:"antonyms,omitempty" yaml:"antonyms"`
	Position   int       `json:"position" yaml:"-"` // insertion order, stable across reloads
	UpdatedAt  time.Time `json:"updated_at" yaml:"-"`
}

// CategoryCount is the number of entries filed under one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
