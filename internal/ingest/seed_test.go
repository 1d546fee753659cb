package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/tinytelemetry/flipbook/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFile_YAMLList(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "fruit.yml", `
- id: apple
  word: "  Apple "
  definition: A fruit
  category: " Food "
  synonyms: [" pome ", ""]
- word: Banana
- id: ghost
  word: "   "
`)
	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2 (blank word dropped)", len(entries))
	}

	apple := entries[0]
	if apple.Word != "Apple" || apple.Category != "food" {
		t.Errorf("apple = %+v", apple)
	}
	if len(apple.Synonyms) != 1 || apple.Synonyms[0] != "pome" {
		t.Errorf("synonyms = %v", apple.Synonyms)
	}
	if _, err := uuid.Parse(entries[1].ID); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", entries[1].ID, err)
	}
}

func TestNormalize_GeneratedIDsAreStable(t *testing.T) {
	t.Parallel()

	raw := []model.DictionaryEntry{
		{Word: "Lark", Definition: "a songbird"},
		{Word: "lark", Definition: "a bit of fun"},
	}
	first := Normalize(raw)
	second := Normalize(raw)

	if first[0].ID != second[0].ID {
		t.Fatalf("ids differ across imports: %q vs %q", first[0].ID, second[0].ID)
	}
	if first[0].ID == first[1].ID {
		t.Fatal("different definitions must get different ids")
	}
	if _, err := uuid.Parse(first[0].ID); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", first[0].ID, err)
	}
}

func TestLoadFile_Wrapped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yml := writeFile(t, dir, "a.yaml", "entries:\n  - id: x\n    word: X-ray\n")
	jsn := writeFile(t, dir, "b.json", `{"entries":[{"id":"y","word":"Yak","definition":"Shaggy ox"}]}`)
	list := writeFile(t, dir, "c.json", `[{"id":"z","word":"Zebra"}]`)

	for _, tt := range []struct {
		path, id string
	}{{yml, "x"}, {jsn, "y"}, {list, "z"}} {
		entries, err := LoadFile(tt.path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", tt.path, err)
		}
		if len(entries) != 1 || entries[0].ID != tt.id {
			t.Errorf("LoadFile(%s) = %+v", tt.path, entries)
		}
	}
}

func TestLoadFile_DuplicateID(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "dup.yml", "- {id: a, word: One}\n- {id: a, word: Two}\n")
	if _, err := LoadFile(path); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bad.json", "{not json")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDir_OrderAndFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "- {id: b1, word: Bee}\n- {id: b2, word: Bear}\n")
	writeFile(t, dir, "a.json", `[{"id":"a1","word":"Ant"}]`)
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.yml"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	want := []string{"a1", "b1", "b2"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestLoadDir_DuplicateAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "- {id: same, word: One}\n")
	writeFile(t, dir, "b.yml", "- {id: same, word: Two}\n")
	if _, err := LoadDir(context.Background(), dir); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestLoadDir_PropagatesFileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "- {id: ok, word: Fine}\n")
	writeFile(t, dir, "b.json", "[broken")
	if _, err := LoadDir(context.Background(), dir); err == nil {
		t.Fatal("expected error from malformed file")
	}
}

type recordingWriter struct {
	got []model.DictionaryEntry
	err error
}

func (w *recordingWriter) InsertEntries(entries []model.DictionaryEntry) error {
	w.got = append(w.got, entries...)
	return w.err
}

func TestImport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "seed.yml", "- {id: a, word: Apple}\n- {id: b, word: Banana}\n")

	w := &recordingWriter{}
	n, err := Import(context.Background(), w, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 || len(w.got) != 2 {
		t.Fatalf("imported %d, writer got %d", n, len(w.got))
	}

	w = &recordingWriter{err: errors.New("disk full")}
	if _, err := Import(context.Background(), w, dir); err == nil {
		t.Fatal("expected writer error to propagate")
	}

	if _, err := Import(context.Background(), &recordingWriter{}, filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestLoadFile_SampleSeed(t *testing.T) {
	t.Parallel()

	entries, err := LoadFile(filepath.Join("..", "..", "sample", "dictionary.yaml"))
	if err != nil {
		t.Fatalf("LoadFile(sample): %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("len = %d, want 8", len(entries))
	}
	if entries[0].Word != "Apple" || entries[0].Category != "food" {
		t.Errorf("first entry = %+v", entries[0])
	}
}
