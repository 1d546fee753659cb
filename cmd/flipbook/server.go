package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flipbook/internal/backup"
	"github.com/tinytelemetry/flipbook/internal/content"
	"github.com/tinytelemetry/flipbook/internal/duckdb"
	"github.com/tinytelemetry/flipbook/internal/httpserver"
	"github.com/tinytelemetry/flipbook/internal/ingest"
	"github.com/tinytelemetry/flipbook/internal/socketrpc"
	"golang.org/x/sync/errgroup"
)

// serverStatus is what the startup banner reports.
type serverStatus struct {
	entries  int64
	imported int
	stories  int
}

// openStore opens the DuckDB store and imports the configured seed.
func openStore(ctx context.Context, cfg appConfig) (*duckdb.Store, int, error) {
	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	store.SetMaxConcurrentQueries(cfg.MaxConcurrentReads)

	imported := 0
	if cfg.SeedPath != "" {
		imported, err = ingest.Import(ctx, store, cfg.SeedPath)
		if err != nil {
			store.Close()
			return nil, 0, fmt.Errorf("failed to import seed %s: %w", cfg.SeedPath, err)
		}
	}
	return store, imported, nil
}

// runSnapshot imports the configured seed, copies the database to dst and
// returns without starting any server.
func runSnapshot(cfg appConfig, dst string) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store, _, err := openStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SnapshotTo(dst); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Printf("server: wrote snapshot to %s", dst)
	fmt.Printf("Snapshot written to %s\n", dst)
	return nil
}

// runServer serves the dictionary over HTTP and the Unix socket until
// interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, imported, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	status := serverStatus{imported: imported}
	if status.entries, err = store.TotalEntryCount(); err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if cfg.StoriesPath != "" {
		stories, err := content.LoadStories(cfg.StoriesPath)
		if err != nil {
			log.Printf("server: stories unavailable: %v", err)
		}
		status.stories = len(stories)
	}

	// Start periodic snapshots when enabled.
	backupManager, err := backup.NewManager(store, backup.Config{
		Enabled:  cfg.BackupEnabled,
		Interval: cfg.BackupInterval,
		Dir:      cfg.BackupDir,
		KeepLast: cfg.BackupKeepLast,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	defer backupManager.Stop()

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, store)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for TUI IPC
	sockServer := socketrpc.NewServer(cfg.SocketPath, store)
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
	} else {
		defer sockServer.Stop()
	}

	printStartupBanner(cfg, status)
	waitForShutdown(ctx, cancel, cfg.SocketPath)
	return nil
}

// waitForShutdown blocks until SIGINT/SIGTERM. A second signal, or a
// shutdown that overruns its deadline, exits the process immediately.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, socketPath string) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sigCh:
		case <-gctx.Done():
			return nil
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		go func() {
			select {
			case <-sigCh:
				fmt.Println("\nForce shutdown.")
			case <-time.After(10 * time.Second):
				fmt.Println("Shutdown timed out, forcing exit.")
			}
			cleanupSocket(socketPath)
			os.Exit(1)
		}()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: shutdown: %v", err)
	}
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "flipbook")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "flipbook.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

// bannerRow is one status line of the startup banner. A row that is not
// active renders with a dim marker.
type bannerRow struct {
	label  string
	value  string
	active bool
}

func printStartupBanner(cfg appConfig, status serverStatus) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	apiRow := bannerRow{"HTTP API", cyan.Render(cfg.APIAddr), true}
	if !cfg.APIEnabled {
		apiRow = bannerRow{"HTTP API", dim.Render("disabled"), false}
	}
	seedRow := bannerRow{"Seed", dim.Render("none"), false}
	if cfg.SeedPath != "" {
		seedRow = bannerRow{"Seed", dim.Render(fmt.Sprintf("%s (%d imported)", shortenPath(cfg.SeedPath), status.imported)), true}
	}
	storiesRow := bannerRow{"Stories", dim.Render("none"), false}
	if status.stories > 0 {
		storiesRow = bannerRow{"Stories", dim.Render(fmt.Sprintf("%s (%d books)", shortenPath(cfg.StoriesPath), status.stories)), true}
	}
	snapRow := bannerRow{"Snapshots", dim.Render("disabled"), false}
	if cfg.BackupEnabled {
		snapRow = bannerRow{"Snapshots", dim.Render(fmt.Sprintf("%s (every %s)", shortenPath(cfg.BackupDir), cfg.BackupInterval)), true}
	}
	configRow := bannerRow{"Config File", dim.Render("default (no file)"), false}
	if cfg.ConfigPath != "" {
		configRow = bannerRow{"Config File", dim.Render(shortenPath(cfg.ConfigPath)), true}
	}

	sections := []struct {
		title string
		rows  []bannerRow
	}{
		{"Gateway", []bannerRow{
			apiRow,
			{"Unix Socket", cyan.Render(shortenPath(cfg.SocketPath)), true},
		}},
		{"Content", []bannerRow{
			{"Storage", dim.Render(shortenPath(cfg.DBPath)), true},
			{"Entries", dim.Render(fmt.Sprintf("%d", status.entries)), true},
			seedRow,
			storiesRow,
			snapRow,
		}},
		{"Config", []bannerRow{configRow}},
	}

	logo := cyan.Bold(true).Render(`
    ╔═╗╦  ╦╔═╗╔╗ ╔═╗╔═╗╦╔═
    ╠╣ ║  ║╠═╝╠╩╗║ ║║ ║╠╩╗
    ╚  ╩═╝╩╩  ╚═╝╚═╝╚═╝╩ ╩`)
	separator := dim.Render("    " + strings.Repeat("─", 33))

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n    %s\n\n%s\n", logo, dim.Render("v"+version), separator)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s\n\n", bold.Render("    "+sec.title))
		for _, row := range sec.rows {
			marker := dim.Render("●")
			if row.active {
				marker = green.Render("●")
			}
			fmt.Fprintf(&b, "    %s  %-14s %s\n", marker, row.label, row.value)
		}
	}
	fmt.Fprintf(&b, "\n%s\n\n    %s%s%s\n", separator, dim.Render("Press "), yellow.Render("Ctrl+C"), dim.Render(" to stop"))

	fmt.Println(b.String())
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home); ok {
		return "~" + rest
	}
	return path
}
