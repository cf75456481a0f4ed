package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"substudio/internal/services"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate", "--config", env.configPath}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.base)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate", "--config", target}, "")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	setupCLIEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, bad, "[ffmpeg]\ncrf = 99\n", 0o644)
	_, _, err := runCLI(t, []string{"config", "validate", "--config", bad}, "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for crf 99, got %v", err)
	}
	if code := services.ExitCode(err); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestDoctorReportsTools(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"doctor", "--config", env.configPath}, "")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "ffmpeg version 6.1.1")
	requireContains(t, out, "ffmpeg subtitles filter")
	requireContains(t, out, "All checks passed")
}

func TestDoctorMissingTool(t *testing.T) {
	env := setupCLIEnv(t)
	if err := os.Remove(env.ffprobe); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"doctor", "--config", env.configPath}, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	requireContains(t, out, "FFprobe")
}

func TestProbeListsSubtitleStreams(t *testing.T) {
	env := setupCLIEnv(t)
	if _, _, err := runCLI(t, []string{"config", "validate", "--config", env.configPath}, ""); err != nil {
		t.Fatalf("prepare directories: %v", err)
	}
	writeFile(t, filepath.Join(env.base, "Input", "movie.mkv"), "video", 0o644)

	out, _, err := runCLI(t, []string{"probe", "movie.mkv", "--config", env.configPath}, "")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "movie.mkv: 3 stream(s) (1 video, 0 audio, 2 subtitle), duration 61.0s, 2.0 MiB")
	requireContains(t, out, "English")
	requireContains(t, out, "no (image)")
}

func TestProbeMissingVideo(t *testing.T) {
	env := setupCLIEnv(t)
	_, _, err := runCLI(t, []string{"probe", "absent.mkv", "--config", env.configPath}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"test-notify", "--config", env.configPath}, "")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications are disabled")
}
