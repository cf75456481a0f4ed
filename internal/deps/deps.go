package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"substudio/internal/services"
)

// Requirement defines an external dependency substudio relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch path, err := exec.LookPath(cmd); {
		case cmd == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		default:
			status.Available = true
			status.Path = path
		}
		results = append(results, status)
	}
	return results
}

// Require resolves binary on PATH. A missing binary yields an ErrNotFound
// error naming the tool.
func Require(name, binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", services.Wrap(services.ErrConfiguration, "deps", name, "binary not configured", nil)
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "deps", name,
			fmt.Sprintf("%q not found on PATH (install it, e.g. `pkg install ffmpeg`)", binary), err)
	}
	return path, nil
}

// Missing returns the required (non-optional) statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
