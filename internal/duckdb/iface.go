package duckdb

import "github.com/tinytelemetry/flipbook/internal/model"

// Type aliases re-export model interfaces and types so consumers that
// only hold a *Store can name them without importing model.
type DictionaryEntry = model.DictionaryEntry
type CategoryCount = model.CategoryCount
type DictionaryReader = model.DictionaryReader
type DictionaryWriter = model.DictionaryWriter
type SchemaQuerier = model.SchemaQuerier
type ReadAPI = model.ReadAPI

var (
	_ ReadAPI          = (*Store)(nil)
	_ DictionaryWriter = (*Store)(nil)
)
