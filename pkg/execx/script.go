package execx

import (
	"context"
	"strings"
	"sync"
)

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) Result

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) Result {
	return f(ctx, cmd)
}

// Rule maps a command-line substring to a canned Result.
type Rule struct {
	// Match is checked against "name arg1 arg2 ...". Empty matches anything.
	Match  string
	Result Result
}

// Script is a scripted Runner for tests. Rules are checked in order; the
// first match wins. Unmatched commands get Fallback. All invocations are
// recorded in Calls.
type Script struct {
	Rules    []Rule
	Fallback Result

	mu    sync.Mutex
	Calls []Command
}

// Run implements Runner.
func (s *Script) Run(_ context.Context, cmd Command) Result {
	s.mu.Lock()
	s.Calls = append(s.Calls, cmd)
	s.mu.Unlock()

	line := cmd.Name + " " + strings.Join(cmd.Args, " ")
	for _, rule := range s.Rules {
		if rule.Match == "" || strings.Contains(line, rule.Match) {
			return rule.Result
		}
	}
	return s.Fallback
}

// CallLines renders recorded calls as single strings for assertions.
func (s *Script) CallLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, len(s.Calls))
	for i, c := range s.Calls {
		lines[i] = c.Name + " " + strings.Join(c.Args, " ")
	}
	return lines
}
