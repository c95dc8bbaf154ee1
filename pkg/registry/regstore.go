package registry

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/ghostytools/wintweak/pkg/logging"
)

// Timeouts bounds each reg.exe invocation. Exports of whole hives take far
// longer than single-key queries.
type Timeouts struct {
	Query      time.Duration
	Export     time.Duration
	FullExport time.Duration
	Import     time.Duration
	Set        time.Duration
}

// DefaultTimeouts mirror what the host tool needs in practice.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Query:      15 * time.Second,
		Export:     30 * time.Second,
		FullExport: 60 * time.Second,
		Import:     60 * time.Second,
		Set:        10 * time.Second,
	}
}

// RegStore is the reg.exe-backed Store.
type RegStore struct {
	runner   execx.Runner
	timeouts Timeouts
}

// New creates a Store over the given Runner.
func New(runner execx.Runner, timeouts Timeouts) *RegStore {
	return &RegStore{runner: runner, timeouts: timeouts}
}

// Hives whose export warrants the longer timeout.
func isHiveRoot(key string) bool {
	k := strings.ToUpper(key)
	return k == "HKEY_CURRENT_USER" || k == "HKEY_LOCAL_MACHINE" ||
		k == "HKCU" || k == "HKLM"
}

// KeyExists implements Store. reg query exits non-zero for absent keys; that
// is the normal "no" answer, not a failure.
func (s *RegStore) KeyExists(ctx context.Context, key string) (bool, error) {
	res := s.runner.Run(ctx, execx.Command{
		Name:    "reg",
		Args:    []string{"query", key},
		Timeout: s.timeouts.Query,
	})
	if res.Succeeded {
		return true, nil
	}
	if res.TimedOut || res.ExitCode == -1 {
		return false, errors.Newf(errors.ErrKeyProbeFailed, "key probe could not run: %s", strings.TrimSpace(res.Stderr)).
			WithDetail("key", key)
	}
	return false, nil
}

// ReadValue implements Store.
func (s *RegStore) ReadValue(ctx context.Context, key, valueName string) (Value, bool, error) {
	args := []string{"query", key}
	if valueName == "" {
		args = append(args, "/ve")
	} else {
		args = append(args, "/v", valueName)
	}

	res := s.runner.Run(ctx, execx.Command{
		Name:    "reg",
		Args:    args,
		Timeout: s.timeouts.Query,
	})

	if !res.Succeeded {
		if isNotFound(res) {
			return Value{}, false, nil
		}
		return Value{}, false, errors.Newf(errors.ErrKeyProbeFailed, "reg query failed: %s", strings.TrimSpace(res.Stderr)).
			WithDetail("key", key).
			WithDetail("valueName", valueName)
	}

	value, ok := parseQueryValue(res.Stdout, valueName)
	if !ok {
		// The query succeeded but the value line is missing: treat as absent.
		return Value{}, false, nil
	}
	return value, true, nil
}

// ExportKey implements Store. A zero-byte or missing artifact after a
// reported success is itself a failure.
func (s *RegStore) ExportKey(ctx context.Context, key, destPath string) error {
	logger := logging.GetLogger("registry")

	timeout := s.timeouts.Export
	if isHiveRoot(key) {
		timeout = s.timeouts.FullExport
	}

	res := s.runner.Run(ctx, execx.Command{
		Name:    "reg",
		Args:    []string{"export", key, destPath, "/y"},
		Timeout: timeout,
	})
	if !res.Succeeded {
		return errors.Newf(errors.ErrCommandFailed, "reg export failed: %s", strings.TrimSpace(res.Stderr)).
			WithDetail("key", key)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "export artifact missing: %s", destPath).
			WithDetail("key", key)
	}
	if info.Size() == 0 {
		return errors.Newf(errors.ErrFileWrite, "export artifact is empty: %s", destPath).
			WithDetail("key", key)
	}

	logger.Debug().Str("key", key).Str("artifact", destPath).Int64("bytes", info.Size()).Msg("Key exported")
	return nil
}

// ImportSnapshot implements Store.
func (s *RegStore) ImportSnapshot(ctx context.Context, path string) error {
	res := s.runner.Run(ctx, execx.Command{
		Name:    "reg",
		Args:    []string{"import", path},
		Timeout: s.timeouts.Import,
	})
	if !res.Succeeded {
		return errors.Newf(errors.ErrCommandFailed, "reg import failed: %s", strings.TrimSpace(res.Stderr)).
			WithDetail("path", path)
	}
	return nil
}

// SetValue implements Store. reg add /f creates missing keys and overwrites
// existing values, so the write is safe to re-invoke.
func (s *RegStore) SetValue(ctx context.Context, key, valueName, data string, valueType ValueType) error {
	args := []string{"add", key}
	if valueName == "" {
		args = append(args, "/ve")
	} else {
		args = append(args, "/v", valueName)
	}
	args = append(args, "/t", string(valueType), "/d", data, "/f")

	res := s.runner.Run(ctx, execx.Command{
		Name:    "reg",
		Args:    args,
		Timeout: s.timeouts.Set,
	})
	if !res.Succeeded {
		return errors.Newf(errors.ErrCommandFailed, "reg add failed: %s", strings.TrimSpace(res.Stderr)).
			WithDetail("key", key).
			WithDetail("valueName", valueName)
	}
	return nil
}

// isNotFound distinguishes the expected "no such key or value" answer from
// query failures like permission problems.
func isNotFound(res execx.Result) bool {
	if res.TimedOut || res.ExitCode == -1 {
		return false
	}
	s := strings.ToLower(res.Stderr + res.Stdout)
	return strings.Contains(s, "unable to find the specified registry key or value") ||
		strings.Contains(s, "the system was unable to find")
}
