// Package backup keeps rolling on-disk snapshots of the dictionary database.
package backup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultInterval = 6 * time.Hour
	defaultKeepLast = 24

	filePrefix = "flipbook-"
	fileSuffix = ".duckdb"
)

// Config controls periodic snapshots.
type Config struct {
	Enabled  bool
	Interval time.Duration
	Dir      string
	KeepLast int
}

// Snapshotter is the store contract the manager needs.
type Snapshotter interface {
	DBPath() string
	SnapshotTo(dstPath string) error
}

// Manager writes a snapshot at startup and then every Interval, keeping the
// newest KeepLast files.
type Manager struct {
	store Snapshotter
	cfg   Config
	now   func() time.Time

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager starts the snapshot loop. It returns nil when snapshots are
// disabled.
func NewManager(store Snapshotter, cfg Config) (*Manager, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if store == nil {
		return nil, fmt.Errorf("backup: nil snapshotter")
	}
	if strings.TrimSpace(store.DBPath()) == "" {
		return nil, fmt.Errorf("backup: db-path is empty (in-memory store)")
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("backup: backup-dir is required when backups are enabled")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.KeepLast <= 0 {
		cfg.KeepLast = defaultKeepLast
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("backup: create backup-dir: %w", err)
	}

	m := newManager(store, cfg)

	// Startup snapshot captures whatever the seed import just wrote.
	if _, err := m.RunOnce(); err != nil {
		log.Printf("backup: startup snapshot failed: %v", err)
	}

	m.wg.Add(1)
	go m.loop()
	return m, nil
}

func newManager(store Snapshotter, cfg Config) *Manager {
	return &Manager{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		done:  make(chan struct{}),
	}
}

func (m *Manager) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.RunOnce(); err != nil {
				log.Printf("backup: periodic snapshot failed: %v", err)
			}
		case <-m.done:
			return
		}
	}
}

// RunOnce writes one snapshot, prunes old ones and returns the new path.
func (m *Manager) RunOnce() (string, error) {
	name := filePrefix + m.now().UTC().Format("20060102-150405.000000000") + fileSuffix
	path := filepath.Join(m.cfg.Dir, name)

	if err := m.store.SnapshotTo(path); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	log.Printf("backup: created snapshot %s", path)

	if err := prune(m.cfg.Dir, m.cfg.KeepLast); err != nil {
		return path, fmt.Errorf("prune snapshots: %w", err)
	}
	return path, nil
}

// Stop ends the snapshot loop. It is safe on a nil Manager and safe to call
// more than once.
func (m *Manager) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
	})
}

// Snapshots lists the snapshot files in dir, newest first.
func Snapshots(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	// The timestamp in the name sorts lexically in time order.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

func prune(dir string, keepLast int) error {
	if keepLast <= 0 {
		return nil
	}
	matches, err := Snapshots(dir)
	if err != nil {
		return err
	}
	if len(matches) <= keepLast {
		return nil
	}
	for _, old := range matches[keepLast:] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
