// Package registry adapts the Windows registry for wintweak.
//
// All operations report success or failure as values or plain errors so
// callers can branch on "absent" versus "broken": a missing key at backup
// time changes which path the engine takes, it is not a fault.
package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the closed set of registry value types wintweak handles.
type ValueType string

const (
	TypeString    ValueType = "REG_SZ"
	TypeExpandSZ  ValueType = "REG_EXPAND_SZ"
	TypeDword     ValueType = "REG_DWORD"
	TypeQword     ValueType = "REG_QWORD"
	TypeBinary    ValueType = "REG_BINARY"
	TypeMultiSZ   ValueType = "REG_MULTI_SZ"
)

var valueTypes = map[string]ValueType{
	string(TypeString):   TypeString,
	string(TypeExpandSZ): TypeExpandSZ,
	string(TypeDword):    TypeDword,
	string(TypeQword):    TypeQword,
	string(TypeBinary):   TypeBinary,
	string(TypeMultiSZ):  TypeMultiSZ,
}

// ParseValueType converts a string into a ValueType. Unknown strings are a
// schema error, never a silent passthrough.
func ParseValueType(s string) (ValueType, error) {
	if vt, ok := valueTypes[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return vt, nil
	}
	return "", fmt.Errorf("unknown registry value type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so catalogs can carry
// value types as plain strings.
func (t *ValueType) UnmarshalText(text []byte) error {
	vt, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = vt
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// Value is a single registry value.
type Value struct {
	Type ValueType
	Data string
}

// Matches reports whether the live value equals the expected data, applying
// type-aware normalization. reg.exe prints DWORD/QWORD data in hex while
// catalogs carry decimal strings.
func (v Value) Matches(expected string) bool {
	return NormalizeData(v.Type, v.Data) == NormalizeData(v.Type, expected)
}

// NormalizeData canonicalizes value payloads for comparison.
func NormalizeData(t ValueType, data string) string {
	data = strings.TrimSpace(data)
	switch t {
	case TypeDword, TypeQword:
		n, err := parseUint(data)
		if err != nil {
			return data
		}
		return strconv.FormatUint(n, 10)
	case TypeBinary:
		return strings.ToLower(strings.ReplaceAll(data, " ", ""))
	default:
		return data
	}
}

func parseUint(s string) (uint64, error) {
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// Store exposes the registry primitives the backup store and tweak engine
// compose. Absence is an expected outcome: KeyExists and ReadValue encode it
// as a value, and an error means the probe itself failed (permissions, a
// stuck child process).
type Store interface {
	// KeyExists probes for a key. A failed query means absent, not an error;
	// only infrastructure failures (the probe could not run) return an error.
	KeyExists(ctx context.Context, key string) (bool, error)

	// ReadValue reads a single value. The bool is false when the key or value
	// does not exist. Any other query failure returns an error.
	ReadValue(ctx context.Context, key, valueName string) (Value, bool, error)

	// ExportKey serializes the live value tree under key to destPath and
	// verifies the artifact exists and is non-empty.
	ExportKey(ctx context.Context, key, destPath string) error

	// ImportSnapshot replays a previously exported snapshot into the store.
	ImportSnapshot(ctx context.Context, path string) error

	// SetValue idempotently creates the key if absent, then writes the value.
	SetValue(ctx context.Context, key, valueName, data string, valueType ValueType) error
}
