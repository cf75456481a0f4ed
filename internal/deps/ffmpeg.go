package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// VersionLine runs `<binary> -version` and returns the first output line,
// for example "ffmpeg version 6.1.1 Copyright (c) 2000-2023".
func VersionLine(ctx context.Context, binary string) (string, error) {
	out, err := runShort(ctx, binary, "-hide_banner", "-version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// HasFilter reports whether ffmpeg was built with the named filter. Burning
// subtitles needs "subtitles" (libass) and watermarks need "overlay".
func HasFilter(ctx context.Context, binary, filter string) (bool, error) {
	out, err := runShort(ctx, binary, "-hide_banner", "-filters")
	if err != nil {
		return false, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// " T.C subtitles  V->V  Render text subtitles..."
		if len(fields) >= 2 && fields[1] == filter {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func runShort(ctx context.Context, binary string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return out, nil
}
