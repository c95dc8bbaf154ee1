// Package engine applies, probes and undoes registry tweaks. Every forward
// mutation is preceded by a backup of its key, so any change the engine
// makes can be rolled back from the backup ledger.
package engine

import (
	"context"
	"strings"

	"github.com/ghostytools/wintweak/pkg/backup"
	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/logging"
	"github.com/ghostytools/wintweak/pkg/registry"
	"github.com/ghostytools/wintweak/pkg/tweaks"
	"github.com/rs/zerolog"
)

// State is the live status of a tweak, derived from the registry on every
// probe. Nothing is cached between calls.
type State int

const (
	// StateUnknown means a probe could not be completed.
	StateUnknown State = iota
	// StateNotApplied means at least one forward value is absent or differs.
	StateNotApplied
	// StateApplied means every forward mutation is in effect.
	StateApplied
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateNotApplied:
		return "not applied"
	default:
		return "unknown"
	}
}

// TweakStatus is one row of a catalog-wide probe.
type TweakStatus struct {
	Tweak tweaks.Tweak
	State State
	// Err holds the probe failure when State is Unknown.
	Err error
}

// ApplyResult reports what an Apply did.
type ApplyResult struct {
	Tweak           tweaks.Tweak
	BackupIDs       []string
	RequiresRestart bool
}

// Engine coordinates the catalog, the registry and the backup store. It is
// synchronous; callers that apply the same tweak concurrently must serialize.
type Engine struct {
	catalog *tweaks.Catalog
	reg     registry.Store
	backups *backup.Store
	logger  zerolog.Logger
	audit   zerolog.Logger
}

// New assembles an engine over the given catalog, registry store and backup
// store.
func New(catalog *tweaks.Catalog, reg registry.Store, backups *backup.Store) *Engine {
	return &Engine{
		catalog: catalog,
		reg:     reg,
		backups: backups,
		logger:  logging.GetLogger("engine"),
		audit:   logging.GetAuditLogger(),
	}
}

// Catalog returns the engine's tweak catalog.
func (e *Engine) Catalog() *tweaks.Catalog { return e.catalog }

func (e *Engine) lookup(id string) (tweaks.Tweak, error) {
	tw, ok := e.catalog.Get(id)
	if !ok {
		return tweaks.Tweak{}, errors.Newf(errors.ErrUnknownTweak, "no tweak with id %q", id).
			WithDetail("tweak", id)
	}
	return tw, nil
}

// Apply turns a tweak on. Each forward mutation's key is backed up before it
// is written; a backup failure aborts before anything is written, a write
// failure surfaces as ErrMutationFailed with no automatic rollback, leaving
// the fresh backups in place for a manual restore.
func (e *Engine) Apply(ctx context.Context, id string) (*ApplyResult, error) {
	tw, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	e.logger.Info().Str("tweak", tw.ID).Msg("applying tweak")

	records, err := e.backups.Create(ctx, "before applying: "+tw.Name, tw.Keys())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackupFailed,
			"backup failed, tweak %q not applied", tw.ID).
			WithDetail("tweak", tw.ID)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	for _, m := range tw.Forward {
		if err := e.reg.SetValue(ctx, m.Key, m.ValueName, m.Data, m.Type); err != nil {
			return nil, errors.Wrapf(err, errors.ErrMutationFailed,
				"writing %s\\%s for tweak %q", m.Key, m.ValueName, tw.ID).
				WithDetail("tweak", tw.ID).
				WithDetail("key", m.Key).
				WithDetail("valueName", m.ValueName)
		}
	}

	e.audit.Info().
		Str("action", "apply").
		Str("tweak", tw.ID).
		Strs("backups", ids).
		Msg("tweak applied")

	return &ApplyResult{Tweak: tw, BackupIDs: ids, RequiresRestart: tw.RequiresRestart}, nil
}

// Revert turns a tweak off by writing its reverse mutations, taking the same
// backup-first precaution as Apply.
func (e *Engine) Revert(ctx context.Context, id string) (*ApplyResult, error) {
	tw, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	e.logger.Info().Str("tweak", tw.ID).Msg("reverting tweak")

	records, err := e.backups.Create(ctx, "before reverting: "+tw.Name, tw.Keys())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackupFailed,
			"backup failed, tweak %q not reverted", tw.ID).
			WithDetail("tweak", tw.ID)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	for _, m := range tw.Reverse {
		if err := e.reg.SetValue(ctx, m.Key, m.ValueName, m.Data, m.Type); err != nil {
			return nil, errors.Wrapf(err, errors.ErrMutationFailed,
				"writing %s\\%s for tweak %q", m.Key, m.ValueName, tw.ID).
				WithDetail("tweak", tw.ID).
				WithDetail("key", m.Key).
				WithDetail("valueName", m.ValueName)
		}
	}

	e.audit.Info().
		Str("action", "revert").
		Str("tweak", tw.ID).
		Strs("backups", ids).
		Msg("tweak reverted")

	return &ApplyResult{Tweak: tw, BackupIDs: ids, RequiresRestart: tw.RequiresRestart}, nil
}

// Probe derives the live state of a tweak. Applied requires every forward
// (key, valueName) to hold the forward data; any read failure makes the
// state Unknown.
func (e *Engine) Probe(ctx context.Context, id string) (State, error) {
	tw, err := e.lookup(id)
	if err != nil {
		return StateUnknown, err
	}
	return e.probe(ctx, tw)
}

func (e *Engine) probe(ctx context.Context, tw tweaks.Tweak) (State, error) {
	for _, m := range tw.Forward {
		v, found, err := e.reg.ReadValue(ctx, m.Key, m.ValueName)
		if err != nil {
			return StateUnknown, errors.Wrapf(err, errors.ErrKeyProbeFailed,
				"probing %s\\%s", m.Key, m.ValueName).
				WithDetail("tweak", tw.ID).
				WithDetail("key", m.Key)
		}
		if !found {
			return StateNotApplied, nil
		}
		if v.Type != m.Type || !v.Matches(m.Data) {
			return StateNotApplied, nil
		}
	}
	return StateApplied, nil
}

// ProbeAll probes every tweak in the catalog. A probe failure degrades that
// row to Unknown and the scan keeps going.
func (e *Engine) ProbeAll(ctx context.Context) []TweakStatus {
	all := e.catalog.All()
	statuses := make([]TweakStatus, 0, len(all))
	for _, tw := range all {
		state, err := e.probe(ctx, tw)
		if err != nil {
			e.logger.Warn().Err(err).Str("tweak", tw.ID).Msg("probe failed")
		}
		statuses = append(statuses, TweakStatus{Tweak: tw, State: state, Err: err})
	}
	return statuses
}

// UndoLast restores the newest backup whose source keys intersect the
// tweak's forward keys. An empty tweakID restores the newest backup overall.
func (e *Engine) UndoLast(ctx context.Context, tweakID string) (*backup.Record, error) {
	var rec backup.Record
	var ok bool

	if tweakID == "" {
		rec, ok = e.backups.Latest()
		if !ok {
			return nil, errors.New(errors.ErrBackupNotFound, "no backups recorded")
		}
	} else {
		tw, err := e.lookup(tweakID)
		if err != nil {
			return nil, err
		}
		rec, ok = e.latestForKeys(tw.Keys())
		if !ok {
			return nil, errors.Newf(errors.ErrBackupNotFound,
				"no backup covers the keys of tweak %q", tw.ID).
				WithDetail("tweak", tw.ID)
		}
	}

	if err := e.backups.Restore(ctx, rec.ID); err != nil {
		return nil, err
	}

	e.audit.Info().
		Str("action", "undo").
		Str("backup", rec.ID).
		Str("tweak", tweakID).
		Msg("backup restored")

	return &rec, nil
}

func (e *Engine) latestForKeys(keys []string) (backup.Record, bool) {
	var best backup.Record
	var found bool
	for _, key := range keys {
		rec, ok := e.backups.LatestCovering(key)
		if !ok {
			continue
		}
		if !found || rec.CreatedAt.After(best.CreatedAt) ||
			(rec.CreatedAt.Equal(best.CreatedAt) && strings.Compare(rec.ID, best.ID) > 0) {
			best = rec
			found = true
		}
	}
	return best, found
}

// Restore replays a backup by its id.
func (e *Engine) Restore(ctx context.Context, backupID string) error {
	if err := e.backups.Restore(ctx, backupID); err != nil {
		return err
	}
	e.audit.Info().
		Str("action", "restore").
		Str("backup", backupID).
		Msg("backup restored")
	return nil
}

// Backups exposes the engine's backup store.
func (e *Engine) Backups() *backup.Store { return e.backups }
