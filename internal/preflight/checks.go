package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"substudio/internal/config"
	"substudio/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFilter reports whether the configured ffmpeg build provides filter.
func CheckFilter(ctx context.Context, ffmpegBinary, filter, purpose string) Result {
	name := fmt.Sprintf("ffmpeg %s filter", filter)
	ok, err := deps.HasFilter(ctx, ffmpegBinary, filter)
	switch {
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("could not list filters (%v)", err)}
	case !ok:
		return Result{Name: name, Detail: fmt.Sprintf("missing; %s will fail", purpose)}
	default:
		return Result{Name: name, Passed: true, Detail: "available"}
	}
}

// CheckSystemDeps evaluates the external binaries for the given config. Both the
// interactive session and the doctor command use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for rendering and subtitle extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for duration and stream inspection",
		},
	}
	if cfg.Notifications.Termux {
		requirements = append(requirements, deps.Requirement{
			Name:        "termux-notification",
			Command:     "termux-notification",
			Description: "Posts a device notification when a render finishes",
			Optional:    true,
		})
	}
	return deps.CheckBinaries(requirements)
}
