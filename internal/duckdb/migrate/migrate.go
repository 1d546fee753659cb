// Package migrate applies the dictionary schema to a DuckDB database.
package migrate

import (
	"cmp"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Runner applies versioned SQL files named NNN_description.sql, in version
// order, each in its own transaction.
type Runner struct {
	db   *sql.DB
	fsys fs.FS
	dir  string
}

// NewRunner creates a runner for the embedded dictionary migrations.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db, fsys: embedded, dir: "migrations"}
}

// NewRunnerFS creates a runner that reads migrations from dir in fsys.
func NewRunnerFS(db *sql.DB, fsys fs.FS, dir string) *Runner {
	return &Runner{db: db, fsys: fsys, dir: dir}
}

type migration struct {
	version int
	name    string
	body    string
}

// parseVersion extracts NNN from NNN_description.sql.
func parseVersion(name string) (int, bool, error) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, false, nil
	}
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false, fmt.Errorf("parsing version from %s: %w", name, err)
	}
	return v, true, nil
}

func (r *Runner) load() ([]migration, error) {
	files, err := fs.ReadDir(r.fsys, r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var migs []migration
	seen := make(map[int]string)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		v, ok, err := parseVersion(f.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if prev, dup := seen[v]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, f.Name(), v)
		}
		seen[v] = f.Name()

		data, err := fs.ReadFile(r.fsys, path.Join(r.dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
		}
		migs = append(migs, migration{version: v, name: f.Name(), body: string(data)})
	}

	slices.SortFunc(migs, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	return migs, nil
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	if err != nil {
		return fmt.Errorf("bootstrap schema_migrations: %w", err)
	}
	return nil
}

func (r *Runner) current() (int, error) {
	var v sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading applied version: %w", err)
	}
	return int(v.Int64), nil
}

// Run applies every migration newer than the recorded version.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	migs, err := r.load()
	if err != nil {
		return err
	}
	cur, err := r.current()
	if err != nil {
		return err
	}

	for _, m := range migs {
		if m.version <= cur {
			continue
		}
		if err := r.apply(m); err != nil {
			return err
		}
		log.Printf("duckdb: applied migration %s", m.name)
	}
	return nil
}

func (r *Runner) apply(m migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", m.name, err)
	}
	if _, err := tx.Exec(m.body); err != nil {
		tx.Rollback()
		return fmt.Errorf("executing %s: %w", m.name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		tx.Rollback()
		return fmt.Errorf("recording %s: %w", m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", m.name, err)
	}
	return nil
}

// Status returns the applied version and the number of pending migrations.
func (r *Runner) Status() (current int, pending int, err error) {
	if err = r.ensureTable(); err != nil {
		return 0, 0, err
	}
	if current, err = r.current(); err != nil {
		return 0, 0, err
	}
	migs, err := r.load()
	if err != nil {
		return 0, 0, err
	}
	for _, m := range migs {
		if m.version > current {
			pending++
		}
	}
	return current, pending, nil
}
