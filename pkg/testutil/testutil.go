// Package testutil carries fixtures shared by the package tests: a
// deterministic clock and a temp-dir backup store wired to a fake registry.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghostytools/wintweak/pkg/backup"
	"github.com/ghostytools/wintweak/pkg/engine"
	"github.com/ghostytools/wintweak/pkg/registry"
	"github.com/ghostytools/wintweak/pkg/tweaks"
)

// TickingClock returns a clock handing out strictly increasing timestamps
// one second apart, starting after base.
func TickingClock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

// NewBackupStore builds a backup store in a temp directory over the fake
// registry, with a deterministic clock.
func NewBackupStore(t *testing.T, fake *registry.Fake, retention int) *backup.Store {
	t.Helper()
	store, err := backup.NewStore(t.TempDir(), fake, retention,
		backup.WithClock(TickingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	return store
}

// NewEngine builds an engine over the embedded catalog, the fake registry
// and a fresh temp-dir backup store.
func NewEngine(t *testing.T, fake *registry.Fake) *engine.Engine {
	t.Helper()
	catalog, err := tweaks.Default()
	require.NoError(t, err)
	return engine.New(catalog, fake, NewBackupStore(t, fake, backup.DefaultRetention))
}
