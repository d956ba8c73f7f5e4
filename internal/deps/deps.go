package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary and whether mvc can run without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for one Requirement. Command holds the
// resolved path when the binary was found.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Blocking reports whether the missing binary prevents encoding.
func (s Status) Blocking() bool { return !s.Available && !s.Optional }

// String renders the status as a single "Name: detail" line.
func (s Status) String() string {
	if s.Available {
		return fmt.Sprintf("%s: %s", s.Name, s.Command)
	}
	if s.Optional {
		return fmt.Sprintf("%s: not found, optional (%s)", s.Name, s.Detail)
	}
	return fmt.Sprintf("%s: not found (%s)", s.Name, s.Detail)
}

// CheckBinaries looks up every requirement on PATH, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = checkBinary(req)
	}
	return results
}

func checkBinary(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}
