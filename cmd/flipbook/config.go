package main

import (
	"time"
)

const (
	defaultBindHost           = "127.0.0.1"
	defaultAPIPort            = 3000
	defaultQueryTimeout       = 30 * time.Second
	defaultMaxConcurrentReads = 8
	defaultBackupInterval     = 6 * time.Hour
	defaultBackupKeepLast     = 24
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DBPath             string        `mapstructure:"db-path"`
	SeedPath           string        `mapstructure:"seed-path"`
	StoriesPath        string        `mapstructure:"stories-path"`
	APIEnabled         bool          `mapstructure:"api-enabled"`
	APIPort            int           `mapstructure:"api-port"`
	APIAddr            string        `mapstructure:"api-addr"`
	SocketPath         string        `mapstructure:"socket-path"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
	MaxConcurrentReads int           `mapstructure:"max-concurrent-queries"`
	BackupEnabled      bool          `mapstructure:"backup-enabled"`
	BackupInterval     time.Duration `mapstructure:"backup-interval"`
	BackupDir          string        `mapstructure:"backup-dir"`
	BackupKeepLast     int           `mapstructure:"backup-keep-last"`
	ConfigPath         string        `mapstructure:"-"` // not from config file
}
