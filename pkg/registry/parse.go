package registry

import "strings"

// reg query prints value lines as:
//
//	    HideFileExt    REG_DWORD    0x0
//
// Value names may contain spaces, so lines are split on the type token
// rather than on whitespace.
func parseQueryValue(stdout, valueName string) (Value, bool) {
	wanted := valueName
	if wanted == "" {
		wanted = "(Default)"
	}

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(line, " ") {
			// Key header lines start at column zero.
			continue
		}

		for typeName, vt := range valueTypes {
			idx := strings.Index(trimmed, typeName)
			if idx <= 0 {
				continue
			}
			name := strings.TrimSpace(trimmed[:idx])
			data := strings.TrimSpace(trimmed[idx+len(typeName):])
			if !strings.EqualFold(name, wanted) {
				continue
			}
			return Value{Type: vt, Data: data}, true
		}
	}
	return Value{}, false
}
