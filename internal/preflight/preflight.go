package preflight

import (
	"context"

	"substudio/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks every studio directory and, when ffmpeg is resolvable, the
// filters that hardsub and watermark renders depend on.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, dir := range cfg.Directories() {
		results = append(results, CheckDirectoryAccess(dir.Name+" directory", dir.Path))
	}

	for _, status := range CheckSystemDeps(cfg) {
		if status.Name != "FFmpeg" || !status.Available {
			continue
		}
		results = append(results,
			CheckFilter(ctx, status.Path, "subtitles", "hardsub renders"),
			CheckFilter(ctx, status.Path, "overlay", "watermarks"),
		)
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
