package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/flipbook/internal/prefs"
	"github.com/tinytelemetry/flipbook/internal/socketrpc"
	"github.com/tinytelemetry/flipbook/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/flipbook/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to flipbook service")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Flipbook TUI - Page-Flip Reader\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	saved, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		log.Printf("tui: prefs: %v (using defaults)", err)
	}
	session := tui.NewSession(cfg.PrefsPath, saved)

	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("cannot connect to flipbook service at %s: %w\nIs the flipbook service running? Start it with: flipbook", cfg.SocketPath, err)
	}
	defer client.Close()

	pages := []tui.Page{}
	bookCfg := func(next string) tui.BookPageConfig {
		return tui.BookPageConfig{
			FlipDuration:  cfg.FlipDuration,
			FrameInterval: cfg.FrameInterval,
			Keys:          tui.DefaultKeyMap(),
			Session:       session,
			NextPage:      next,
		}
	}
	if cfg.StoriesPath != "" {
		pages = append(pages,
			tui.NewBookPage(tui.NewDictionarySource(client), bookCfg(prefs.BookStories)),
			tui.NewBookPage(tui.NewStorySource(cfg.StoriesPath), bookCfg(prefs.BookDictionary)),
		)
	} else {
		pages = append(pages, tui.NewBookPage(tui.NewDictionarySource(client), bookCfg("")))
	}

	app := tui.NewApp(pages...)
	app.Start(saved.LastBook)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// configureRuntimeLogger sends log output to the service's log file so it
// never draws over the alt screen.
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

	f, err := os.OpenFile(filepath.Join(logDir, "flipbook-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
