// pkg/logging/logging_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables, filesystem
// PURPOSE: Test logger setup and component loggers

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerVerbosity(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{name: "default_warn", verbosity: 0, wantLevel: zerolog.WarnLevel},
		{name: "v_info", verbosity: 1, wantLevel: zerolog.InfoLevel},
		{name: "vv_debug", verbosity: 2, wantLevel: zerolog.DebugLevel},
		{name: "vvv_trace", verbosity: 3, wantLevel: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestSetupLoggerCreatesLogFile(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	SetupLogger(1)

	logPath := filepath.Join(stateHome, "wintweak", "wintweak.log")
	_, err := os.Stat(logPath)
	require.NoError(t, err, "log file should be created under the state dir")
}

func TestGetLoggerComponent(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	SetupLogger(0)

	logger := GetLogger("engine")
	// Smoke test: logging through the component logger must not panic.
	logger.Info().Msg("probe complete")
}
