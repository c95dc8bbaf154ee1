// Package restorepoint creates and lists Windows system restore points
// through PowerShell.
package restorepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/ghostytools/wintweak/pkg/logging"
)

const (
	enableTimeout = 60 * time.Second
	createTimeout = 120 * time.Second
	listTimeout   = 30 * time.Second
)

// Point is one system restore point.
type Point struct {
	SequenceNumber int    `json:"SequenceNumber"`
	Description    string `json:"Description"`
	CreationTime   string `json:"CreationTime"`
	Type           int    `json:"RestorePointType"`
}

// Manager drives the restore point cmdlets through a Runner.
type Manager struct {
	runner execx.Runner
	logger zerolog.Logger
	audit  zerolog.Logger
}

// NewManager assembles a manager over the given runner.
func NewManager(runner execx.Runner) *Manager {
	return &Manager{
		runner: runner,
		logger: logging.GetLogger("restorepoint"),
		audit:  logging.GetAuditLogger(),
	}
}

// Create makes a restore point. System Restore is enabled first on a best
// effort basis; Checkpoint-Computer throttles to one point per day unless
// the machine is configured otherwise, so its stdout is checked rather than
// just the exit code.
func (m *Manager) Create(ctx context.Context, description string) error {
	m.logger.Info().Str("description", description).Msg("creating restore point")

	enable := `try { Enable-ComputerRestore -Drive "$env:SystemDrive"; Write-Output "enabled" } catch { Write-Output "enable failed: $_" }`
	res := m.runner.Run(ctx, execx.Powershell(enable, enableTimeout))
	if !res.Succeeded {
		m.logger.Warn().Str("stderr", strings.TrimSpace(res.Stderr)).Msg("could not enable system restore")
	}

	create := fmt.Sprintf(
		`try { Checkpoint-Computer -Description "%s" -RestorePointType "MODIFY_SETTINGS" -ErrorAction Stop; Write-Output "restore point created successfully" } catch { Write-Output "failed to create restore point: $_" }`,
		strings.ReplaceAll(description, `"`, "`\""))
	res = m.runner.Run(ctx, execx.Powershell(create, createTimeout))

	if !res.Succeeded || !strings.Contains(strings.ToLower(res.Stdout), "successfully") {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		return errors.Newf(errors.ErrCommandFailed, "restore point not created: %s", detail).
			WithDetail("description", description)
	}

	m.audit.Info().
		Str("action", "restorepoint").
		Str("description", description).
		Msg("restore point created")
	return nil
}

// List returns the existing restore points, newest first. ConvertTo-Json
// emits a bare object when there is exactly one point, so both shapes are
// accepted. No points at all is an empty list, not an error.
func (m *Manager) List(ctx context.Context) ([]Point, error) {
	script := `Get-ComputerRestorePoint | Select-Object -Property SequenceNumber, Description, CreationTime, RestorePointType | ConvertTo-Json`
	res := m.runner.Run(ctx, execx.Powershell(script, listTimeout))

	if !res.Succeeded {
		return nil, errors.Newf(errors.ErrCommandFailed,
			"listing restore points failed: %s", strings.TrimSpace(res.Stderr))
	}

	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return nil, nil
	}

	var points []Point
	if strings.HasPrefix(out, "[") {
		if err := json.Unmarshal([]byte(out), &points); err != nil {
			return nil, errors.Wrap(err, errors.ErrCommandFailed, "malformed restore point listing")
		}
	} else {
		var single Point
		if err := json.Unmarshal([]byte(out), &single); err != nil {
			return nil, errors.Wrap(err, errors.ErrCommandFailed, "malformed restore point listing")
		}
		points = []Point{single}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].SequenceNumber > points[j].SequenceNumber
	})
	return points, nil
}
