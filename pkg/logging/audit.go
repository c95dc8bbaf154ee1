package logging

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	auditOnce   sync.Once
	auditLogger zerolog.Logger
)

// GetAuditLogger returns the audit logger. Mutating operations (applying
// tweaks, restores, bloatware removal) record to a dedicated append-only
// audit.log so the trail survives verbosity changes on the main logger.
func GetAuditLogger() zerolog.Logger {
	auditOnce.Do(func() {
		path := filepath.Join(stateDir(), "audit.log")
		file, err := openLogFile(path)
		if err != nil {
			// Audit trail degrades to the shared logger rather than being lost.
			auditLogger = GetLogger("audit")
			return
		}
		auditLogger = zerolog.New(file).
			Level(zerolog.InfoLevel).
			With().Timestamp().Str("component", "audit").Logger()
	})
	return auditLogger
}

// SetAuditLogger replaces the audit logger, for tests.
func SetAuditLogger(l zerolog.Logger) {
	auditOnce.Do(func() {})
	auditLogger = l
}
