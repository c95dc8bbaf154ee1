// pkg/debloat/debloat_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Scripted command runner, no real PowerShell
// PURPOSE: Test catalog validation, install detection, scanning and
// ordered removal with stop-at-first-failure

package debloat_test

import (
	"context"
	"testing"

	"github.com/ghostytools/wintweak/pkg/debloat"
	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, catalog.Len(), 8)

	item, ok := catalog.Get("onedrive")
	require.True(t, ok)
	assert.Equal(t, debloat.CategoryOneDrive, item.Category)
	assert.True(t, item.RequiresAdmin)
	assert.True(t, item.RequiresRestart)
	assert.NotEmpty(t, item.Commands)
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "empty id",
			yaml: "items:\n  - id: \"\"\n    name: X\n    commands: [\"c\"]\n",
		},
		{
			name: "missing name",
			yaml: "items:\n  - id: x\n    commands: [\"c\"]\n",
		},
		{
			name: "no commands",
			yaml: "items:\n  - id: x\n    name: X\n    commands: []\n",
		},
		{
			name: "empty command",
			yaml: "items:\n  - id: x\n    name: X\n    commands: [\"\"]\n",
		},
		{
			name: "duplicate id",
			yaml: "items:\n  - id: x\n    name: X\n    commands: [\"c\"]\n  - id: x\n    name: Y\n    commands: [\"c\"]\n",
		},
		{
			name: "unknown category",
			yaml: "items:\n  - id: x\n    name: X\n    category: candy\n    commands: [\"c\"]\n",
		},
		{
			name: "unknown safety",
			yaml: "items:\n  - id: x\n    name: X\n    safety: yolo\n    commands: [\"c\"]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := debloat.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestByCategory(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	apps := catalog.ByCategory(debloat.CategoryStoreApps)
	require.NotEmpty(t, apps)
	for _, item := range apps {
		assert.Equal(t, debloat.CategoryStoreApps, item.Category)
	}
}

func TestInstalled(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	tests := []struct {
		name   string
		result execx.Result
		want   bool
		isErr  bool
	}{
		{
			name:   "present",
			result: execx.Result{Succeeded: true, Stdout: "True\n"},
			want:   true,
		},
		{
			name:   "absent",
			result: execx.Result{Succeeded: true, Stdout: "False\n"},
			want:   false,
		},
		{
			name:   "check exits nonzero",
			result: execx.Result{Succeeded: false, ExitCode: 1},
			want:   false,
		},
		{
			name:   "check times out",
			result: execx.Result{Succeeded: false, ExitCode: -1, TimedOut: true, Stderr: "command timed out after 30s"},
			want:   false,
			isErr:  true,
		},
	}

	item, ok := catalog.Get("candy_crush")
	require.True(t, ok)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := &execx.Script{Fallback: tt.result}
			remover := debloat.NewRemover(catalog, script)

			installed, err := remover.Installed(context.Background(), item)
			assert.Equal(t, tt.want, installed)
			if tt.isErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCommandFailed))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestInstalledWithoutCheckCommand(t *testing.T) {
	catalog, err := debloat.Parse([]byte("items:\n  - id: x\n    name: X\n    commands: [\"Remove-Thing\"]\n"))
	require.NoError(t, err)
	item, _ := catalog.Get("x")

	script := &execx.Script{}
	remover := debloat.NewRemover(catalog, script)

	installed, err := remover.Installed(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, installed, "item without a check command is assumed installed")
	assert.Empty(t, script.Calls)
}

func TestScanSurvivesFailures(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	script := &execx.Script{
		Rules: []execx.Rule{
			{Match: "candycrush", Result: execx.Result{Succeeded: true, Stdout: "True"}},
			{Match: "DiagTrack", Result: execx.Result{Succeeded: false, ExitCode: -1, TimedOut: true}},
		},
		Fallback: execx.Result{Succeeded: true, Stdout: "False"},
	}
	remover := debloat.NewRemover(catalog, script)

	results := remover.Scan(context.Background())
	require.Len(t, results, catalog.Len())

	byID := make(map[string]debloat.ScanResult, len(results))
	for _, res := range results {
		byID[res.Item.ID] = res
	}

	assert.True(t, byID["candy_crush"].Installed)
	assert.False(t, byID["bing_apps"].Installed)
	assert.Error(t, byID["diagtrack_service"].Err)
}

func TestRemoveRunsCommandsInOrder(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	script := &execx.Script{Fallback: execx.Result{Succeeded: true, Stdout: "done"}}
	remover := debloat.NewRemover(catalog, script)

	res, err := remover.Remove(context.Background(), "xbox_apps")
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	require.Len(t, res.Commands, 3)

	item, _ := catalog.Get("xbox_apps")
	lines := script.CallLines()
	require.Len(t, lines, 3)
	for i, cmd := range item.Commands {
		assert.Contains(t, lines[i], cmd)
		assert.True(t, res.Commands[i].Succeeded)
	}
}

func TestRemoveStopsAtFirstFailure(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	script := &execx.Script{
		Rules: []execx.Rule{
			{Match: "XboxApp ", Result: execx.Result{Succeeded: true}},
			{Match: "XboxGamingOverlay", Result: execx.Result{Succeeded: false, ExitCode: 1, Stderr: "access denied"}},
		},
		Fallback: execx.Result{Succeeded: true},
	}
	remover := debloat.NewRemover(catalog, script)

	res, err := remover.Remove(context.Background(), "xbox_apps")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCommandFailed))

	require.NotNil(t, res)
	assert.False(t, res.Succeeded)
	require.Len(t, res.Commands, 2, "third command must not run after the second fails")
	assert.False(t, res.Commands[1].Succeeded)
	assert.Equal(t, "access denied", res.Commands[1].Output)
}

func TestRemoveUnknownItem(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)
	remover := debloat.NewRemover(catalog, &execx.Script{})

	_, err = remover.Remove(context.Background(), "clippy")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnknownItem))
}

func TestPowershellInvocationShape(t *testing.T) {
	catalog, err := debloat.Default()
	require.NoError(t, err)

	script := &execx.Script{Fallback: execx.Result{Succeeded: true, Stdout: "True"}}
	remover := debloat.NewRemover(catalog, script)

	item, _ := catalog.Get("candy_crush")
	_, err = remover.Installed(context.Background(), item)
	require.NoError(t, err)

	require.Len(t, script.Calls, 1)
	call := script.Calls[0]
	assert.Equal(t, "powershell", call.Name)
	assert.Equal(t, []string{"-NoProfile", "-NonInteractive", "-Command", item.CheckCommand}, call.Args)
}
