package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/tinytelemetry/flipbook/internal/model"
)

// ErrQueryRejected is returned by ExecuteQuery for anything but a single
// read-only statement.
var ErrQueryRejected = model.ErrQueryRejected

// maxQueryRows caps the number of rows ExecuteQuery returns.
const maxQueryRows = 1000

// writeKeywords are rejected anywhere in a query at word boundaries, so
// columns such as updated_at or words like RESET still pass.
var writeKeywords = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|COPY|ATTACH|DETACH|LOAD|EXPORT|IMPORT|INSTALL|CALL|EXECUTE|PRAGMA|SET|CHECKPOINT)\b`,
)

var (
	blockComment = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineComment  = regexp.MustCompile(`--[^\n]*`)
)

// stripSQLComments removes /* */ block comments and -- line comments.
func stripSQLComments(query string) string {
	return lineComment.ReplaceAllString(blockComment.ReplaceAllString(query, " "), " ")
}

// validateReadOnly returns the query to run, or ErrQueryRejected.
func validateReadOnly(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty query", ErrQueryRejected)
	}
	if strings.Contains(trimmed, ";") {
		return "", fmt.Errorf("%w: query must not contain semicolons", ErrQueryRejected)
	}

	stripped := strings.TrimSpace(stripSQLComments(trimmed))
	upper := strings.ToUpper(stripped)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return "", fmt.Errorf("%w: only SELECT/WITH queries are allowed", ErrQueryRejected)
	}
	if kw := writeKeywords.FindString(stripped); kw != "" {
		return "", fmt.Errorf("%w: query contains disallowed keyword: %s", ErrQueryRejected, strings.ToUpper(kw))
	}
	return trimmed, nil
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// ExecuteQuery runs a read-only SQL query and returns up to maxQueryRows
// rows as column -> value maps. JSON and BLOB values come back as strings.
func (s *Store) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	q, err := validateReadOnly(query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows, maxQueryRows)
}

func scanRows(rows *sql.Rows, limit int) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for rows.Next() && len(results) < limit {
		for i := range values {
			values[i] = nil
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Printf("duckdb: scan error (ExecuteQuery): %v", err)
			continue
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSchemaDescription describes the entries table from the live catalog.
func (s *Store) GetSchemaDescription() string {
	const fallback = `Table 'entries': id, position, word, definition, example, category, phonetic, synonyms, antonyms, updated_at.`

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_schema = 'main' AND table_name = 'entries'
		 ORDER BY ordinal_position`)
	if err != nil {
		log.Printf("duckdb: schema description: %v", err)
		return fallback
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return fallback
		}
		cols = append(cols, fmt.Sprintf("%s (%s)", name, typ))
	}
	if rows.Err() != nil || len(cols) == 0 {
		return fallback
	}
	return "Table 'entries': " + strings.Join(cols, ", ") +
		". synonyms and antonyms hold JSON arrays of strings; position is the stable reading order."
}

// countedTables is the allowlist for TableRowCounts.
var countedTables = []string{"entries", "schema_migrations"}

// TableRowCounts returns the row count of each allowlisted table.
func (s *Store) TableRowCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	counts := make(map[string]int64, len(countedTables))
	for _, table := range countedTables {
		var n int64
		// Table names come from the allowlist above, never from callers.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
