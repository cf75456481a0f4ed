package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-unarr"

	"substudio/internal/fileutil"
)

// ArchiveExtensions lists the archive formats offered in the subtitle menu.
var ArchiveExtensions = []string{".zip", ".rar", ".7z"}

// ArchiveEntries lists the .srt entries inside an archive.
func ArchiveEntries(archivePath string) ([]string, error) {
	a, err := unarr.NewArchive(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", filepath.Base(archivePath), err)
	}
	defer a.Close()

	list, err := a.List()
	if err != nil {
		return nil, fmt.Errorf("list archive %s: %w", filepath.Base(archivePath), err)
	}
	var entries []string
	for _, item := range list {
		if fileutil.HasExt(item, ".srt") {
			entries = append(entries, item)
		}
	}
	return entries, nil
}

// ExtractArchiveEntry writes one entry of an archive to destDir and returns the
// written path. Directory components in the entry name are dropped.
func ExtractArchiveEntry(archivePath, entry, destDir string) (string, error) {
	a, err := unarr.NewArchive(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", filepath.Base(archivePath), err)
	}
	defer a.Close()

	if err := a.EntryFor(entry); err != nil {
		return "", fmt.Errorf("find %s in %s: %w", entry, filepath.Base(archivePath), err)
	}
	data, err := a.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read %s from %s: %w", entry, filepath.Base(archivePath), err)
	}

	name := filepath.Base(strings.ReplaceAll(entry, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid archive entry name %q", entry)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create extraction directory: %w", err)
	}
	dest := fileutil.UniquePath(destDir, strings.TrimSuffix(name, filepath.Ext(name)), filepath.Ext(name))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}
