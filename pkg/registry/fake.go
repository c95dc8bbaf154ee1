package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Fake is an in-memory Store for tests. Export writes a real artifact file
// (a JSON snapshot of the subtree) so backup verification and pruning are
// exercised against the filesystem, and ImportSnapshot replays it, giving
// the same round-trip law as reg.exe.
type Fake struct {
	mu   sync.Mutex
	keys map[string]map[string]Value

	// Failure injection.
	FailExport bool
	FailImport bool
	FailSet    bool
	FailRead   map[string]bool // key -> probe failure

	Exports int
	Imports int
}

// NewFake returns an empty fake registry.
func NewFake() *Fake {
	return &Fake{
		keys:     make(map[string]map[string]Value),
		FailRead: make(map[string]bool),
	}
}

// Seed sets a value directly, creating the key.
func (f *Fake) Seed(key, valueName string, value Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setLocked(key, valueName, value)
}

// FailReadsOn makes every ReadValue against key fail with a probe error.
func (f *Fake) FailReadsOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailRead[normKey(key)] = true
}

// DeleteKey removes a key outright, simulating outside interference.
func (f *Fake) DeleteKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, normKey(key))
}

// Get returns the stored value for assertions.
func (f *Fake) Get(key, valueName string) (Value, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.keys[normKey(key)]
	if !ok {
		return Value{}, false
	}
	v, ok := values[strings.ToLower(valueName)]
	return v, ok
}

func (f *Fake) setLocked(key, valueName string, value Value) {
	k := normKey(key)
	if f.keys[k] == nil {
		f.keys[k] = make(map[string]Value)
	}
	f.keys[k][strings.ToLower(valueName)] = value
}

func normKey(key string) string {
	return strings.ToLower(strings.TrimRight(key, `\`))
}

// KeyExists implements Store.
func (f *Fake) KeyExists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := normKey(key)
	if _, ok := f.keys[k]; ok {
		return true, nil
	}
	// A key also exists when it has child keys.
	for stored := range f.keys {
		if strings.HasPrefix(stored, k+`\`) {
			return true, nil
		}
	}
	return false, nil
}

// ReadValue implements Store.
func (f *Fake) ReadValue(_ context.Context, key, valueName string) (Value, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRead[normKey(key)] {
		return Value{}, false, fmt.Errorf("registry query failed: access is denied")
	}
	values, ok := f.keys[normKey(key)]
	if !ok {
		return Value{}, false, nil
	}
	v, ok := values[strings.ToLower(valueName)]
	if !ok {
		return Value{}, false, nil
	}
	return v, true, nil
}

type fakeSnapshot struct {
	Root string                      `json:"root"`
	Keys map[string]map[string]Value `json:"keys"`
}

// ExportKey implements Store.
func (f *Fake) ExportKey(_ context.Context, key, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailExport {
		return fmt.Errorf("reg export failed: access is denied")
	}

	k := normKey(key)
	snap := fakeSnapshot{Root: k, Keys: make(map[string]map[string]Value)}
	for stored, values := range f.keys {
		if stored == k || strings.HasPrefix(stored, k+`\`) {
			copied := make(map[string]Value, len(values))
			for name, v := range values {
				copied[name] = v
			}
			snap.Keys[stored] = copied
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return err
	}
	f.Exports++
	return nil
}

// ImportSnapshot implements Store.
func (f *Fake) ImportSnapshot(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailImport {
		return fmt.Errorf("reg import failed: access is denied")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reg import failed: %w", err)
	}
	var snap fakeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("reg import failed: malformed snapshot: %w", err)
	}

	for key, values := range snap.Keys {
		for name, v := range values {
			f.setLocked(key, name, v)
		}
	}
	f.Imports++
	return nil
}

// SetValue implements Store.
func (f *Fake) SetValue(_ context.Context, key, valueName, data string, valueType ValueType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSet {
		return fmt.Errorf("reg add failed: access is denied")
	}
	f.setLocked(key, valueName, Value{Type: valueType, Data: data})
	return nil
}

var _ Store = (*Fake)(nil)
