package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCLIConfigDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadCLIConfig("")
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if cfg.FlipDuration != defaultFlipDuration || cfg.FrameInterval != defaultFrameInterval {
		t.Errorf("timings = %v/%v", cfg.FlipDuration, cfg.FrameInterval)
	}
	if cfg.Skin != defaultSkin {
		t.Errorf("Skin = %q", cfg.Skin)
	}
	if cfg.ConfigDir != filepath.Join(home, ".config", "flipbook") {
		t.Errorf("ConfigDir = %q", cfg.ConfigDir)
	}
}

func TestLoadCLIConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "tui.yml")
	body := "flip-duration: 800ms\nframe-interval: 20ms\nskin: night\nstories-path: ~/stories.yaml\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadCLIConfig(path)
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if cfg.FlipDuration != 800*time.Millisecond || cfg.FrameInterval != 20*time.Millisecond {
		t.Errorf("timings = %v/%v", cfg.FlipDuration, cfg.FrameInterval)
	}
	if cfg.Skin != "night" {
		t.Errorf("Skin = %q", cfg.Skin)
	}
	if cfg.StoriesPath != filepath.Join(home, "stories.yaml") {
		t.Errorf("StoriesPath = %q", cfg.StoriesPath)
	}
}

func TestLoadCLIConfigRejectsBadTimings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLIPBOOK_FRAME_INTERVAL", "5s")

	if _, err := loadCLIConfig(""); err == nil {
		t.Fatal("expected error when frame-interval exceeds flip-duration")
	}
}
