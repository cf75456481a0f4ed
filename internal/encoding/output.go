package encoding

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"substudio/internal/fileutil"
	"substudio/internal/services"
	"substudio/internal/textutil"
)

const (
	finalPrefix   = "FINAL_"
	previewPrefix = "PREVIEW_"
)

// OutputTarget pairs the final output path with the hidden partial file
// ffmpeg writes to.
type OutputTarget struct {
	Final   string
	Partial string
}

// NewOutputTarget picks an unused final name in dir for the video:
// FINAL_<stem><ext> (PREVIEW_ for previews), then _2, _3 and so on.
func NewOutputTarget(dir, videoPath, ext string, preview bool) OutputTarget {
	prefix := finalPrefix
	if preview {
		prefix = previewPrefix
	}
	if ext == "" {
		ext = ".mp4"
	}
	final := fileutil.UniquePath(dir, prefix+textutil.OutputStem(videoPath), ext)
	stem := strings.TrimSuffix(filepath.Base(final), ext)
	return OutputTarget{
		Final:   final,
		Partial: filepath.Join(dir, "."+stem+".partial"+ext),
	}
}

// Commit moves the finished partial file to its final name.
func (t OutputTarget) Commit() error {
	info, err := os.Stat(t.Partial)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encoding", "finalize output", "ffmpeg produced no output file", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(t.Partial)
		return services.Wrap(services.ErrExternalTool, "encoding", "finalize output", "ffmpeg produced an empty output file", nil)
	}
	if fileutil.Exists(t.Final) {
		return services.Wrap(services.ErrValidation, "encoding", "finalize output", fmt.Sprintf("output already exists: %s", t.Final), nil)
	}
	if err := os.Rename(t.Partial, t.Final); err != nil {
		return services.Wrap(services.ErrExternalTool, "encoding", "finalize output", "failed to move output into place", err)
	}
	return nil
}

// Discard removes the partial file.
func (t OutputTarget) Discard() {
	fileutil.RemoveQuietly(t.Partial)
}
