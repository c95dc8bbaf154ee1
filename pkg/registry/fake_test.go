// pkg/registry/fake_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem for snapshot artifacts
// PURPOSE: Test the fake registry, including the export/import round-trip law

package registry_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ghostytools/wintweak/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeKeyExists(t *testing.T) {
	fake := registry.NewFake()
	fake.Seed(`HKCU\Software\Wintweak\Child`, "v", registry.Value{Type: registry.TypeString, Data: "x"})

	ctx := context.Background()

	exists, err := fake.KeyExists(ctx, `HKCU\Software\Wintweak\Child`)
	require.NoError(t, err)
	assert.True(t, exists)

	// Parent keys exist implicitly.
	exists, err = fake.KeyExists(ctx, `HKCU\Software\Wintweak`)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fake.KeyExists(ctx, `HKCU\Software\Other`)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFakeReadValueAbsentVsFailure(t *testing.T) {
	fake := registry.NewFake()
	fake.Seed(testKey, "AllowTelemetry", registry.Value{Type: registry.TypeDword, Data: "1"})
	ctx := context.Background()

	_, found, err := fake.ReadValue(ctx, testKey, "NoSuchValue")
	require.NoError(t, err)
	assert.False(t, found)

	fake.FailReadsOn(testKey)
	_, _, err = fake.ReadValue(ctx, testKey, "AllowTelemetry")
	assert.Error(t, err)
}

func TestFakeRoundTripLaw(t *testing.T) {
	// exportKey followed by importSnapshot, applied after the value changed
	// in between, restores the original value exactly.
	fake := registry.NewFake()
	ctx := context.Background()
	artifact := filepath.Join(t.TempDir(), "snap.reg")

	fake.Seed(testKey, "AllowTelemetry", registry.Value{Type: registry.TypeDword, Data: "1"})
	require.NoError(t, fake.ExportKey(ctx, testKey, artifact))

	require.NoError(t, fake.SetValue(ctx, testKey, "AllowTelemetry", "0", registry.TypeDword))
	v, _ := fake.Get(testKey, "AllowTelemetry")
	require.Equal(t, "0", v.Data)

	require.NoError(t, fake.ImportSnapshot(ctx, artifact))
	v, ok := fake.Get(testKey, "AllowTelemetry")
	require.True(t, ok)
	assert.Equal(t, "1", v.Data)
	assert.Equal(t, registry.TypeDword, v.Type)
}

func TestFakeExportFailureInjection(t *testing.T) {
	fake := registry.NewFake()
	fake.Seed(testKey, "v", registry.Value{Type: registry.TypeString, Data: "x"})
	fake.FailExport = true

	err := fake.ExportKey(context.Background(), testKey, filepath.Join(t.TempDir(), "x.reg"))
	assert.Error(t, err)
}

func TestFakeImportMissingFile(t *testing.T) {
	fake := registry.NewFake()
	err := fake.ImportSnapshot(context.Background(), filepath.Join(t.TempDir(), "absent.reg"))
	assert.Error(t, err)
}
