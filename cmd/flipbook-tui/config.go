package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/flipbook/internal/model"
	"github.com/tinytelemetry/flipbook/internal/prefs"
	"github.com/tinytelemetry/flipbook/internal/socketrpc"
)

const (
	defaultFlipDuration  = model.DefaultFlipDuration
	defaultFrameInterval = model.DefaultFrameInterval
	defaultSkin          = model.DefaultSkin
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	SocketPath    string        `mapstructure:"socket-path"`
	FlipDuration  time.Duration `mapstructure:"flip-duration"`
	FrameInterval time.Duration `mapstructure:"frame-interval"`
	Skin          string        `mapstructure:"skin"`
	PrefsPath     string        `mapstructure:"prefs-path"`
	StoriesPath   string        `mapstructure:"stories-path"`
	ConfigDir     string        `mapstructure:"-"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "flipbook")

	v := viper.New()
	v.SetEnvPrefix("FLIPBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("flip-duration", defaultFlipDuration)
	v.SetDefault("frame-interval", defaultFrameInterval)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("prefs-path", prefs.DefaultPath())
	v.SetDefault("stories-path", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.FlipDuration <= 0 {
		return cfg, fmt.Errorf("invalid flip-duration: %v", cfg.FlipDuration)
	}
	if cfg.FrameInterval <= 0 || cfg.FrameInterval > cfg.FlipDuration {
		return cfg, fmt.Errorf("invalid frame-interval: %v", cfg.FrameInterval)
	}
	for _, p := range []*string{&cfg.PrefsPath, &cfg.StoriesPath} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}
	cfg.ConfigDir = configDir

	return cfg, nil
}
