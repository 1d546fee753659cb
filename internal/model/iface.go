package model

import "errors"

// DictionaryReader provides read-only access to dictionary entries.
type DictionaryReader interface {
	TotalEntryCount() (int64, error)
	AllEntries() ([]DictionaryEntry, error)
	SearchEntries(query string, limit int) ([]DictionaryEntry, error)
	GetEntry(id string) (DictionaryEntry, error)
	CategoryCounts() ([]CategoryCount, error)
}

// SchemaQuerier provides schema introspection and arbitrary read-only queries.
type SchemaQuerier interface {
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	GetSchemaDescription() string
	TableRowCounts() (map[string]int64, error)
}

// DictionaryWriter provides write operations used by the seed importer.
type DictionaryWriter interface {
	InsertEntries(entries []DictionaryEntry) error
}

// ReadAPI is the unified read contract for read surfaces (HTTP and socket RPC).
type ReadAPI interface {
	DictionaryReader
	SchemaQuerier
}

var (
	// ErrEntryNotFound is returned by DictionaryReader.GetEntry for unknown ids.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrQueryRejected is returned by SchemaQuerier.ExecuteQuery for queries
	// that are not a single read-only statement.
	ErrQueryRejected = errors.New("query rejected")
)
