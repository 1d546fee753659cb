package duckdb

import (
	"errors"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func insertTestEntries(t *testing.T, store *Store, entries []DictionaryEntry) {
	t.Helper()
	if err := store.InsertEntries(entries); err != nil {
		t.Fatalf("InsertEntries failed: %v", err)
	}
}

func sampleEntries() []DictionaryEntry {
	return []DictionaryEntry{
		{ID: "1", Word: "Apple", Definition: "A fruit", Category: "food", Synonyms: []string{"pome"}},
		{ID: "2", Word: "Pineapple", Definition: "Tropical fruit", Category: "food"},
		{ID: "3", Word: "Map", Definition: "Apple-shaped chart", Category: "things", Antonyms: []string{"territory"}},
		{ID: "4", Word: "Banana", Definition: "Yellow", Example: "I ate an apple", Category: ""},
	}
}

func TestInsertEntries_AllEntriesPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	got, err := store.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("AllEntries returned %d entries, want 4", len(got))
	}
	for i, id := range []string{"1", "2", "3", "4"} {
		if got[i].ID != id || got[i].Position != i {
			t.Errorf("entry %d = %s@%d, want %s@%d", i, got[i].ID, got[i].Position, id, i)
		}
	}
	if len(got[0].Synonyms) != 1 || got[0].Synonyms[0] != "pome" {
		t.Errorf("synonyms = %v, want [pome]", got[0].Synonyms)
	}
	if got[1].Synonyms != nil {
		t.Errorf("empty synonyms should decode as nil, got %v", got[1].Synonyms)
	}
	if got[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestInsertEntries_UpsertKeepsPosition(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	insertTestEntries(t, store, []DictionaryEntry{
		{ID: "2", Word: "Pineapple", Definition: "Updated"},
		{ID: "5", Word: "Cherry", Definition: "Small fruit"},
	})

	count, err := store.TotalEntryCount()
	if err != nil {
		t.Fatalf("TotalEntryCount: %v", err)
	}
	if count != 5 {
		t.Fatalf("TotalEntryCount = %d, want 5", count)
	}

	e, err := store.GetEntry("2")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Definition != "Updated" || e.Position != 1 {
		t.Errorf("upserted entry = %q@%d, want Updated@1", e.Definition, e.Position)
	}

	e, err = store.GetEntry("5")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Position != 4 {
		t.Errorf("new entry position = %d, want 4", e.Position)
	}
}

func TestInsertEntries_RejectsMissingID(t *testing.T) {
	store := newTestStore(t)
	err := store.InsertEntries([]DictionaryEntry{{Word: "orphan"}})
	if err == nil {
		t.Fatal("expected error for entry without id")
	}
	count, _ := store.TotalEntryCount()
	if count != 0 {
		t.Errorf("failed batch should not persist rows, got %d", count)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetEntry("missing")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestCategoryCounts(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	got, err := store.CategoryCounts()
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}
	want := []CategoryCount{
		{Category: "food", Count: 2},
		{Category: "things", Count: 1},
		{Category: "uncategorized", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("CategoryCounts = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CategoryCounts[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSearchEntries_RanksAndLimits(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	got, err := store.SearchEntries("apple", 0)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	var words []string
	for _, e := range got {
		words = append(words, e.Word)
	}
	if strings.Join(words, ",") != "Apple,Pineapple,Banana,Map" {
		t.Errorf("ranked words = %v", words)
	}

	got, err = store.SearchEntries("apple", 2)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit 2 returned %d entries", len(got))
	}

	got, err = store.SearchEntries("   ", 0)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("blank query returned %d entries, want all 4", len(got))
	}
}

func TestExecuteQuery(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	rows, err := store.ExecuteQuery("SELECT word FROM entries WHERE category = 'food' ORDER BY position")
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	if len(rows) != 2 || rows[0]["word"] != "Apple" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExecuteQuery_RejectsWrites(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name  string
		query string
	}{
		{"delete", "DELETE FROM entries"},
		{"chained", "SELECT 1; DROP TABLE entries"},
		{"hidden in cte", "WITH x AS (SELECT 1) INSERT INTO entries SELECT * FROM x"},
		{"comment prefix", "/* SELECT */ DROP TABLE entries"},
		{"pragma", "SELECT * FROM entries WHERE 1=1 AND PRAGMA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.ExecuteQuery(tt.query); !errors.Is(err, ErrQueryRejected) {
				t.Errorf("ExecuteQuery(%q) err = %v, want ErrQueryRejected", tt.query, err)
			}
		})
	}
}

func TestExecuteQuery_AllowsKeywordSubstrings(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.ExecuteQuery("SELECT updated_at FROM entries"); err != nil {
		t.Fatalf("updated_at column should be allowed: %v", err)
	}
}

func TestValidateReadOnly_StripsComments(t *testing.T) {
	q, err := validateReadOnly("  -- list words\nSELECT word FROM entries  ")
	if err != nil {
		t.Fatalf("validateReadOnly: %v", err)
	}
	if !strings.HasPrefix(q, "-- list words") {
		t.Errorf("query = %q, want original text trimmed", q)
	}
}

func TestTableRowCounts(t *testing.T) {
	store := newTestStore(t)
	insertTestEntries(t, store, sampleEntries())

	counts, err := store.TableRowCounts()
	if err != nil {
		t.Fatalf("TableRowCounts: %v", err)
	}
	if counts["entries"] != 4 {
		t.Errorf("entries count = %d, want 4", counts["entries"])
	}
	if counts["schema_migrations"] != 2 {
		t.Errorf("schema_migrations count = %d, want 2", counts["schema_migrations"])
	}
}

func TestGetSchemaDescription(t *testing.T) {
	store := newTestStore(t)
	desc := store.GetSchemaDescription()
	for _, col := range []string{"entries", "word", "definition", "category"} {
		if !strings.Contains(desc, col) {
			t.Errorf("schema description missing %q", col)
		}
	}
}

func TestNewStore_PersistsToDisk(t *testing.T) {
	path := t.TempDir() + "/nested/flipbook.duckdb"
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	insertTestEntries(t, store, sampleEntries()[:1])
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	count, err := reopened.TotalEntryCount()
	if err != nil {
		t.Fatalf("TotalEntryCount: %v", err)
	}
	if count != 1 {
		t.Errorf("count after reopen = %d, want 1", count)
	}
}

func TestSetMaxConcurrentQueries(t *testing.T) {
	store := newTestStore(t)

	store.SetMaxConcurrentQueries(4)
	if got := store.DB().Stats().MaxOpenConnections; got != 4 {
		t.Fatalf("MaxOpenConnections = %d, want 4", got)
	}

	store.SetMaxConcurrentQueries(-1)
	if got := store.DB().Stats().MaxOpenConnections; got != 0 {
		t.Fatalf("MaxOpenConnections = %d, want 0 (unlimited)", got)
	}
}
