package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/logging"
	"github.com/ghostytools/wintweak/pkg/registry"
)

// DefaultRetention is the ledger cap when none is configured.
const DefaultRetention = 10

const ledgerName = "ledger.toml"

// Store manages backup artifacts and the ledger sidecar. The ledger is the
// sole source of truth for List/Latest/prune across sessions.
type Store struct {
	dir       string
	reg       registry.Store
	retention int
	now       func() time.Time
	logger    zerolog.Logger
	audit     zerolog.Logger

	mu      sync.Mutex
	records []Record // oldest first
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock, for tests that need distinct
// deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore opens (or creates) the backup directory and loads the ledger.
func NewStore(dir string, reg registry.Store, retention int, opts ...Option) (*Store, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create backup directory %s", dir)
	}

	s := &Store{
		dir:       dir,
		reg:       reg,
		retention: retention,
		now:       time.Now,
		logger:    logging.GetLogger("backup"),
		audit:     logging.GetAuditLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.loadLedger(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ledgerPath() string {
	return filepath.Join(s.dir, ledgerName)
}

func (s *Store) loadLedger() error {
	data, err := os.ReadFile(s.ledgerPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrLedgerLoad, "cannot read backup ledger")
	}

	var file ledgerFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return errors.Wrap(err, errors.ErrLedgerLoad, "malformed backup ledger")
	}

	sort.SliceStable(file.Backups, func(i, j int) bool {
		if file.Backups[i].CreatedAt.Equal(file.Backups[j].CreatedAt) {
			return file.Backups[i].ID < file.Backups[j].ID
		}
		return file.Backups[i].CreatedAt.Before(file.Backups[j].CreatedAt)
	})
	s.records = file.Backups

	s.logger.Debug().Int("records", len(s.records)).Msg("Backup ledger loaded")
	return nil
}

// saveLedger writes the ledger atomically: temp file, then rename.
func (s *Store) saveLedger() error {
	data, err := toml.Marshal(ledgerFile{Backups: s.records})
	if err != nil {
		return errors.Wrap(err, errors.ErrLedgerWrite, "cannot encode backup ledger")
	}

	tmp := s.ledgerPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrLedgerWrite, "cannot write backup ledger")
	}
	if err := os.Rename(tmp, s.ledgerPath()); err != nil {
		return errors.Wrap(err, errors.ErrLedgerWrite, "cannot replace backup ledger")
	}
	return nil
}

// newID derives a sortable, timestamp-based backup id, suffixed on
// collision so several backups within one second stay distinct.
func (s *Store) newID(at time.Time) string {
	base := "reg_backup_" + at.Format("20060102_150405")
	id := base
	for n := 2; s.hasID(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func (s *Store) hasID(id string) bool {
	for _, r := range s.records {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Create snapshots each key into its own record; concatenated exports are
// not reimportable, so keys are never batched into one artifact. An absent
// key yields a skipped record, which is a success. An export or verification
// failure fails the call; records already persisted for earlier keys remain
// valid backups.
func (s *Store) Create(ctx context.Context, description string, keys []string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created []Record
	for _, key := range keys {
		rec, err := s.createOne(ctx, description, key)
		if err != nil {
			return created, err
		}
		created = append(created, rec)
	}

	if err := s.pruneLocked(); err != nil {
		return created, err
	}
	return created, nil
}

// CreateFull snapshots the whole user hive under the full-store sentinel.
func (s *Store) CreateFull(ctx context.Context, description string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now()
	id := s.newID(at)
	artifact := filepath.Join(s.dir, id+".reg")

	if err := s.reg.ExportKey(ctx, FullStoreKey, artifact); err != nil {
		return Record{}, errors.Wrapf(err, errors.ErrBackupFailed, "full backup export failed").
			WithDetail("key", FullStoreKey)
	}

	rec := Record{
		ID:           id,
		CreatedAt:    at,
		Description:  description,
		SourceKeys:   []string{FullStoreSentinel},
		ArtifactPath: artifact,
	}
	s.records = append(s.records, rec)
	if err := s.saveLedger(); err != nil {
		return Record{}, err
	}

	s.audit.Info().Str("backupId", id).Str("description", description).Msg("Full backup created")
	if err := s.pruneLocked(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *Store) createOne(ctx context.Context, description, key string) (Record, error) {
	at := s.now()
	id := s.newID(at)

	exists, err := s.reg.KeyExists(ctx, key)
	if err != nil {
		return Record{}, errors.Wrapf(err, errors.ErrBackupFailed, "cannot probe key before backup").
			WithDetail("key", key)
	}

	if !exists {
		// Nothing to snapshot. This is a successful outcome: the caller may
		// still create the key, and restoring this record is a no-op.
		s.logger.Warn().Str("key", key).Msg("Key absent at backup time, recording skipped backup")
		rec := Record{
			ID:          id,
			CreatedAt:   at,
			Description: description,
			SourceKeys:  []string{key},
			Skipped:     true,
		}
		s.records = append(s.records, rec)
		if err := s.saveLedger(); err != nil {
			return Record{}, err
		}
		s.audit.Info().Str("backupId", id).Str("key", key).Msg("Skipped backup recorded (key absent)")
		return rec, nil
	}

	artifact := filepath.Join(s.dir, id+".reg")
	if err := s.reg.ExportKey(ctx, key, artifact); err != nil {
		// Leave no half-made artifact behind.
		_ = os.Remove(artifact)
		return Record{}, errors.Wrapf(err, errors.ErrBackupFailed, "export failed for %s", key).
			WithDetail("key", key)
	}

	rec := Record{
		ID:           id,
		CreatedAt:    at,
		Description:  description,
		SourceKeys:   []string{key},
		ArtifactPath: artifact,
	}
	s.records = append(s.records, rec)
	if err := s.saveLedger(); err != nil {
		return Record{}, err
	}

	s.logger.Info().Str("backupId", id).Str("key", key).Msg("Backup created")
	s.audit.Info().Str("backupId", id).Str("key", key).Str("description", description).Msg("Backup created")
	return rec, nil
}

// Restore replays the artifact behind backupID. Restoring a skipped record
// succeeds immediately without touching the store.
func (s *Store) Restore(ctx context.Context, backupID string) error {
	s.mu.Lock()
	rec, ok := s.findLocked(backupID)
	s.mu.Unlock()

	if !ok {
		return errors.Newf(errors.ErrBackupNotFound, "backup not found: %s", backupID)
	}

	if rec.Skipped {
		s.logger.Info().Str("backupId", backupID).Msg("Backup was skipped (key absent at backup time), nothing to restore")
		return nil
	}

	if _, err := os.Stat(rec.ArtifactPath); err != nil {
		return errors.Wrapf(err, errors.ErrRestoreFailed, "backup artifact missing: %s", rec.ArtifactPath).
			WithDetail("backupId", backupID)
	}

	if err := s.reg.ImportSnapshot(ctx, rec.ArtifactPath); err != nil {
		return errors.Wrapf(err, errors.ErrRestoreFailed, "import failed for backup %s", backupID).
			WithDetail("backupId", backupID)
	}

	s.audit.Info().Str("backupId", backupID).Msg("Backup restored")
	return nil
}

// Latest returns the newest record, if any.
func (s *Store) Latest() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// LatestCovering returns the newest record that covers the given key.
func (s *Store) LatestCovering(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Covers(key) {
			return s.records[i], true
		}
	}
	return Record{}, false
}

// List returns all records, newest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out
}

// Get returns a record by id.
func (s *Store) Get(backupID string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(backupID)
}

func (s *Store) findLocked(backupID string) (Record, bool) {
	for _, r := range s.records {
		if r.ID == backupID {
			return r, true
		}
	}
	return Record{}, false
}

// Delete removes a backup's artifact, then its ledger entry.
func (s *Store) Delete(backupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(backupID)
}

func (s *Store) deleteLocked(backupID string) error {
	idx := -1
	for i, r := range s.records {
		if r.ID == backupID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.Newf(errors.ErrBackupNotFound, "backup not found: %s", backupID)
	}

	rec := s.records[idx]
	// Artifact first, then the ledger entry.
	if rec.ArtifactPath != "" {
		if err := os.Remove(rec.ArtifactPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove backup artifact %s", rec.ArtifactPath)
		}
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	if err := s.saveLedger(); err != nil {
		return err
	}

	s.audit.Info().Str("backupId", backupID).Msg("Backup deleted")
	return nil
}

// pruneLocked evicts oldest records until the ledger is back at the
// retention cap.
func (s *Store) pruneLocked() error {
	for len(s.records) > s.retention {
		oldest := s.records[0]
		s.logger.Info().Str("backupId", oldest.ID).Msg("Retention cap exceeded, evicting oldest backup")
		if err := s.deleteLocked(oldest.ID); err != nil {
			return err
		}
	}
	return nil
}

// Dir exposes the artifact directory (read-only use, e.g. reports).
func (s *Store) Dir() string {
	return s.dir
}
