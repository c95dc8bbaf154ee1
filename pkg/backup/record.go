// Package backup owns the backup artifact directory and its persisted
// ledger. It is the only component that touches artifacts; the tweak
// engine goes through Create and Restore.
package backup

import (
	"strings"
	"time"
)

// FullStoreSentinel marks a record that snapshots the whole user hive
// rather than specific keys.
const FullStoreSentinel = "full-store"

// FullStoreKey is the hive exported for full backups. HKEY_CURRENT_USER is
// the safe choice: exporting HKEY_LOCAL_MACHINE wholesale is both slow and
// not reimportable in practice.
const FullStoreKey = "HKEY_CURRENT_USER"

// Record is one ledger entry. Records are immutable after creation; they
// are only ever deleted.
type Record struct {
	ID           string    `toml:"id"`
	CreatedAt    time.Time `toml:"created_at"`
	Description  string    `toml:"description"`
	SourceKeys   []string  `toml:"source_keys"`
	ArtifactPath string    `toml:"artifact_path,omitempty"`
	Skipped      bool      `toml:"skipped"`
}

// ledgerFile is the on-disk shape of the ledger sidecar.
type ledgerFile struct {
	Backups []Record `toml:"backups"`
}

// Covers reports whether the record snapshots the given registry key. Full
// backups cover every key.
func (r Record) Covers(key string) bool {
	for _, k := range r.SourceKeys {
		if k == FullStoreSentinel || strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
