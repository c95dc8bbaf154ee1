// pkg/restorepoint/restorepoint_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Scripted command runner, no real PowerShell
// PURPOSE: Test restore point creation success detection and listing with
// both single-object and array JSON output

package restorepoint_test

import (
	"context"
	"testing"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/ghostytools/wintweak/pkg/restorepoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSucceeds(t *testing.T) {
	script := &execx.Script{
		Rules: []execx.Rule{
			{Match: "Enable-ComputerRestore", Result: execx.Result{Succeeded: true, Stdout: "enabled"}},
			{Match: "Checkpoint-Computer", Result: execx.Result{Succeeded: true, Stdout: "restore point created successfully"}},
		},
	}
	mgr := restorepoint.NewManager(script)

	require.NoError(t, mgr.Create(context.Background(), "Before Debloat"))

	lines := script.CallLines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Enable-ComputerRestore")
	assert.Contains(t, lines[1], `Checkpoint-Computer -Description "Before Debloat"`)
	assert.Contains(t, lines[1], "MODIFY_SETTINGS")
}

func TestCreateEnableFailureIsNotFatal(t *testing.T) {
	script := &execx.Script{
		Rules: []execx.Rule{
			{Match: "Enable-ComputerRestore", Result: execx.Result{Succeeded: false, ExitCode: 1, Stderr: "denied"}},
			{Match: "Checkpoint-Computer", Result: execx.Result{Succeeded: true, Stdout: "restore point created successfully"}},
		},
	}
	mgr := restorepoint.NewManager(script)

	assert.NoError(t, mgr.Create(context.Background(), "x"))
}

func TestCreateFailsWithoutSuccessMarker(t *testing.T) {
	// Checkpoint-Computer exits zero even when it refuses, so a zero exit
	// with a failure message must still be reported as an error.
	script := &execx.Script{
		Rules: []execx.Rule{
			{Match: "Enable-ComputerRestore", Result: execx.Result{Succeeded: true}},
			{Match: "Checkpoint-Computer", Result: execx.Result{Succeeded: true, Stdout: "failed to create restore point: throttled"}},
		},
	}
	mgr := restorepoint.NewManager(script)

	err := mgr.Create(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCommandFailed))
	assert.Contains(t, err.Error(), "throttled")
}

func TestListArray(t *testing.T) {
	out := `[
  {"SequenceNumber": 3, "Description": "old", "CreationTime": "20250601120000.000000-000", "RestorePointType": 12},
  {"SequenceNumber": 7, "Description": "new", "CreationTime": "20250602120000.000000-000", "RestorePointType": 12}
]`
	script := &execx.Script{Fallback: execx.Result{Succeeded: true, Stdout: out}}
	mgr := restorepoint.NewManager(script)

	points, err := mgr.List(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 7, points[0].SequenceNumber, "newest first")
	assert.Equal(t, "new", points[0].Description)
}

func TestListSingleObject(t *testing.T) {
	out := `{"SequenceNumber": 5, "Description": "only", "CreationTime": "20250601120000.000000-000", "RestorePointType": 12}`
	script := &execx.Script{Fallback: execx.Result{Succeeded: true, Stdout: out}}
	mgr := restorepoint.NewManager(script)

	points, err := mgr.List(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 5, points[0].SequenceNumber)
}

func TestListEmpty(t *testing.T) {
	script := &execx.Script{Fallback: execx.Result{Succeeded: true, Stdout: ""}}
	mgr := restorepoint.NewManager(script)

	points, err := mgr.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestListFailure(t *testing.T) {
	script := &execx.Script{Fallback: execx.Result{Succeeded: false, ExitCode: 1, Stderr: "not elevated"}}
	mgr := restorepoint.NewManager(script)

	_, err := mgr.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCommandFailed))
}
