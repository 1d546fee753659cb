package model

import "time"

// Shared defaults used by both the server and CLI binaries.
const (
	DefaultFlipDuration  = 1200 * time.Millisecond
	DefaultFrameInterval = 40 * time.Millisecond
	DefaultSearchLimit   = 500
	DefaultSkin          = "default"
)
