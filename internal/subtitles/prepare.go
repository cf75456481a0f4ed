package subtitles

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"substudio/internal/services"
)

// Prepared describes the subtitle file handed to ffmpeg.
type Prepared struct {
	// Path is the file to burn or mux. It equals the source path when the
	// source needed no changes.
	Path string
	// Temp is true when Path is a cleaned copy the caller must remove.
	Temp     bool
	Cues     int
	Encoding string
	Stats    CleanStats
}

// Cleanup removes the cleaned copy, if one was written.
func (p Prepared) Cleanup() {
	if p.Temp && p.Path != "" {
		_ = os.Remove(p.Path)
	}
}

// Prepare decodes and cleans an SRT file. When decoding or cleanup changes the
// content, a normalized UTF-8 copy is written to workDir; the source file is
// never modified.
func Prepare(path, workDir string, opts CleanOptions) (Prepared, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prepared{}, services.Wrap(services.ErrValidation, "subtitles", "read", "subtitle file not found: "+path, nil)
		}
		return Prepared{}, fmt.Errorf("read subtitle %s: %w", path, err)
	}
	text, encoding, err := DecodeText(raw)
	if err != nil {
		return Prepared{}, services.Wrap(services.ErrValidation, "subtitles", "decode", filepath.Base(path), err)
	}
	if strings.TrimSpace(text) == "" {
		return Prepared{}, services.Wrap(services.ErrValidation, "subtitles", "parse", "subtitle file is empty: "+filepath.Base(path), nil)
	}

	cues := ParseSRT(text)
	if len(cues) == 0 {
		return Prepared{}, services.Wrap(services.ErrValidation, "subtitles", "parse", "no subtitle cues found in "+filepath.Base(path), nil)
	}
	cleaned, stats := CleanCues(cues, opts)
	if len(cleaned) == 0 {
		return Prepared{}, services.Wrap(services.ErrValidation, "subtitles", "clean", "no subtitle text left after cleanup in "+filepath.Base(path), nil)
	}

	result := Prepared{Path: path, Cues: len(cleaned), Encoding: encoding, Stats: stats}
	if encoding == "utf-8" && !stats.Changed() && !bytesHaveBOMOrCR(raw) {
		return result, nil
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Prepared{}, fmt.Errorf("create subtitle work directory: %w", err)
	}
	tmp := filepath.Join(workDir, ".substudio-"+uuid.NewString()+".srt")
	if err := os.WriteFile(tmp, []byte(FormatSRT(cleaned)), 0o644); err != nil {
		return Prepared{}, fmt.Errorf("write cleaned subtitle: %w", err)
	}
	result.Path = tmp
	result.Temp = true
	return result, nil
}

func bytesHaveBOMOrCR(raw []byte) bool {
	return bytes.HasPrefix(raw, utf8BOM) || bytes.IndexByte(raw, '\r') >= 0
}
