// Package constants defines shared constants and configuration values
// used throughout the stager framework.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variable names read by the framework.
const (
	EnvironmentEnvVar  = "ENVIRONMENT"
	LogLevelEnvVar     = "LOG_LEVEL"
	WindowWidthEnvVar  = "WINDOW_WIDTH"
	WindowHeightEnvVar = "WINDOW_HEIGHT"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
// Affinity assertions are enabled by default in development mode.
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// Default crossfade timings.
const (
	DefaultRevealDuration  = 1500 * time.Millisecond // First screen fade-in
	DefaultFadeOutDuration = 500 * time.Millisecond  // Outgoing screen fade-out
	DefaultFadeInDuration  = 1000 * time.Millisecond // Incoming screen fade-in
)

// DefaultFrameInterval paces the affinity loop at roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Default window size used in development mode.
const (
	DefaultDevWindowWidth  int32 = 1024
	DefaultDevWindowHeight int32 = 768
)
