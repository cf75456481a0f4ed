package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"substudio/internal/config"
)

const maxLogBytes = 4 << 20

// rotateIfLarge renames an oversized log to substudio-<timestamp>.log so
// PruneSessionLogs can age it out.
func rotateIfLarge(path string, limit int64) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() < limit {
		return nil
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	rotated := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405"), ext))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

// PruneSessionLogs deletes rotated session logs older than retentionDays.
// The active log is never touched; retentionDays <= 0 keeps everything.
func PruneSessionLogs(logger *slog.Logger, cfg *config.Config, retentionDays int) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" || retentionDays <= 0 {
		return
	}
	stem := strings.TrimSuffix(LogFileName, filepath.Ext(LogFileName))
	rotated, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, stem+"-*"+filepath.Ext(LogFileName)))
	if err != nil {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, path := range rotated {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old session log not removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the log directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		if logger != nil {
			logger.Debug("session log pruned", String("path", path))
		}
	}
}
