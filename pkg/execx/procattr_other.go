//go:build !windows

package execx

import "os/exec"

// hideWindow is a no-op outside Windows; there is no console window to hide.
func hideWindow(_ *exec.Cmd) {}
