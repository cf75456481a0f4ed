package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ListByExt returns the regular files in dir whose extension matches one of
// exts (case-insensitive, with dot), sorted by name. Hidden files are skipped.
// A missing directory yields an empty list.
func ListByExt(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !HasExt(name, exts...) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b)))
	})
	return out, nil
}

// HasExt reports whether name ends in one of exts, ignoring case.
func HasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// UniquePath returns dir/<base><ext>, or dir/<base>_2<ext>, dir/<base>_3<ext>...
// for the first name that does not exist yet.
func UniquePath(dir, base, ext string) string {
	candidate := filepath.Join(dir, base+ext)
	for n := 2; Exists(candidate); n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
	}
	return candidate
}

// Exists reports whether path exists (file or directory).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveQuietly deletes the given paths, ignoring missing files and empty entries.
func RemoveQuietly(paths ...string) {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		_ = os.Remove(path)
	}
}
