package execx

import "time"

// Powershell builds a non-interactive, profile-free PowerShell invocation.
// Used by the debloat and restore point components.
func Powershell(script string, timeout time.Duration) Command {
	return Command{
		Name:    "powershell",
		Args:    []string{"-NoProfile", "-NonInteractive", "-Command", script},
		Timeout: timeout,
	}
}
