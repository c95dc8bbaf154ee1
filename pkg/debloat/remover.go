package debloat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/ghostytools/wintweak/pkg/logging"
)

const (
	checkTimeout  = 30 * time.Second
	removeTimeout = 300 * time.Second
)

// ScanResult is one row of a catalog scan.
type ScanResult struct {
	Item      Item
	Installed bool
	// Err holds the probe failure when the check command could not run.
	Err error
}

// CommandResult reports one removal command.
type CommandResult struct {
	Command   string
	Succeeded bool
	Output    string
}

// RemoveResult reports a whole item removal.
type RemoveResult struct {
	Item            Item
	Succeeded       bool
	Commands        []CommandResult
	RequiresRestart bool
}

// Remover runs the catalog's PowerShell commands through a Runner.
type Remover struct {
	catalog *Catalog
	runner  execx.Runner
	logger  zerolog.Logger
	audit   zerolog.Logger
}

// NewRemover assembles a remover over the given catalog and runner.
func NewRemover(catalog *Catalog, runner execx.Runner) *Remover {
	return &Remover{
		catalog: catalog,
		runner:  runner,
		logger:  logging.GetLogger("debloat"),
		audit:   logging.GetAuditLogger(),
	}
}

// Catalog returns the remover's catalog.
func (r *Remover) Catalog() *Catalog { return r.catalog }

// Installed probes whether an item is present. An item without a check
// command is assumed installed. The check command prints True when present.
func (r *Remover) Installed(ctx context.Context, item Item) (bool, error) {
	if item.CheckCommand == "" {
		return true, nil
	}

	res := r.runner.Run(ctx, execx.Powershell(item.CheckCommand, checkTimeout))
	if res.TimedOut || res.ExitCode == -1 {
		return false, errors.Newf(errors.ErrCommandFailed,
			"check for %q did not complete: %s", item.ID, strings.TrimSpace(res.Stderr)).
			WithDetail("item", item.ID)
	}
	if !res.Succeeded {
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(res.Stdout), "True"), nil
}

// Scan probes every catalog item. Probe failures are carried in the result
// rows and never abort the scan.
func (r *Remover) Scan(ctx context.Context) []ScanResult {
	all := r.catalog.All()
	results := make([]ScanResult, 0, len(all))
	for _, item := range all {
		installed, err := r.Installed(ctx, item)
		if err != nil {
			r.logger.Warn().Err(err).Str("item", item.ID).Msg("install check failed")
		}
		results = append(results, ScanResult{Item: item, Installed: installed, Err: err})
	}
	return results
}

// Remove runs an item's commands in order, stopping at the first failure.
func (r *Remover) Remove(ctx context.Context, id string) (*RemoveResult, error) {
	item, ok := r.catalog.Get(id)
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownItem, "no debloat item with id %q", id).
			WithDetail("item", id)
	}

	r.logger.Info().Str("item", item.ID).Msg("removing item")

	result := &RemoveResult{Item: item, Succeeded: true, RequiresRestart: item.RequiresRestart}
	for _, cmd := range item.Commands {
		res := r.runner.Run(ctx, execx.Powershell(cmd, removeTimeout))

		output := strings.TrimSpace(res.Stdout)
		if !res.Succeeded {
			output = strings.TrimSpace(res.Stderr)
			if output == "" {
				output = "command failed"
			}
		}
		result.Commands = append(result.Commands, CommandResult{
			Command:   cmd,
			Succeeded: res.Succeeded,
			Output:    output,
		})

		if !res.Succeeded {
			result.Succeeded = false
			break
		}
	}

	r.audit.Info().
		Str("action", "debloat").
		Str("item", item.ID).
		Bool("succeeded", result.Succeeded).
		Int("commands", len(result.Commands)).
		Msg("removal finished")

	if !result.Succeeded {
		last := result.Commands[len(result.Commands)-1]
		return result, errors.Newf(errors.ErrCommandFailed,
			"removing %q failed: %s", item.ID, last.Output).
			WithDetail("item", item.ID)
	}
	return result, nil
}
