package studio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"substudio/internal/fileutil"
	"substudio/internal/job"
	"substudio/internal/language"
	"substudio/internal/logging"
	"substudio/internal/media/ffprobe"
	"substudio/internal/subtitles"
)

var (
	videoExtensions    = []string{".mp4", ".mkv", ".avi"}
	subtitleExtensions = []string{".srt"}
	fontExtensions     = []string{".ttf", ".otf"}
	logoExtensions     = []string{".png", ".jpg"}
)

const defaultFontChoice = "Default System Font"

var (
	colorPresets   = []string{"Yellow", "White"}
	colorPresetHex = []string{"FFFF00", "FFFFFF"}
)

var sizePresets = []int{30, 48, 60}

var sizeLabels = []string{"30 (Standard)", "48 (Large)", "60 (Huge)", "Custom"}

var errNoVideos = errors.New("no videos")

// collect asks every question for one job.
func (s *Session) collect(ctx context.Context) (job.Request, error) {
	video, err := s.selectVideo()
	if err != nil {
		return job.Request{}, err
	}

	modes := job.Modes()
	labels := make([]string, len(modes))
	for i, mode := range modes {
		labels[i] = mode.Label()
	}
	idx, err := s.prompt.Select("Operation Mode:", labels, 0)
	if err != nil {
		return job.Request{}, err
	}
	req := job.New(video, modes[idx])
	req.Style.FontSize = s.defaultFontSize()
	req.Style.Color = s.defaultColor()

	switch {
	case req.Mode.NeedsSubtitleFile():
		if err := s.selectSubtitleFile(&req); err != nil {
			return job.Request{}, err
		}
	case req.Mode == job.ModeHardsubInternal:
		if err := s.selectStream(ctx, &req); err != nil {
			return job.Request{}, err
		}
	}

	if req.Mode.Burns() {
		if err := s.selectStyle(&req); err != nil {
			return job.Request{}, err
		}
	}
	if err := s.selectVideoOptions(&req); err != nil {
		return job.Request{}, err
	}
	return req, nil
}

func (s *Session) selectVideo() (string, error) {
	videos, err := fileutil.ListByExt(s.cfg.Paths.InputDir, videoExtensions...)
	if err != nil {
		return "", err
	}
	if len(videos) == 0 {
		return "", errNoVideos
	}
	idx, err := s.prompt.Select("Select Video:", baseNames(videos), -1)
	if err != nil {
		return "", err
	}
	return videos[idx], nil
}

// selectSubtitleFile offers .srt files and archives from the Subtitles
// directory. An archive is unpacked into a scratch directory.
func (s *Session) selectSubtitleFile(req *job.Request) error {
	exts := slices.Concat(subtitleExtensions, subtitles.ArchiveExtensions)
	files, err := fileutil.ListByExt(s.cfg.Paths.SubtitlesDir, exts...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.warn("No subtitle files found in %s", s.cfg.Paths.SubtitlesDir)
		return errRestart
	}
	idx, err := s.prompt.Select("Select SRT:", baseNames(files), -1)
	if err != nil {
		return err
	}
	chosen := files[idx]
	if fileutil.HasExt(chosen, subtitles.ArchiveExtensions...) {
		chosen, err = s.extractFromArchive(chosen)
		if err != nil {
			return err
		}
	}
	req.SubtitlePath = chosen
	req.SubtitleLanguage = language.FromFilename(chosen)
	return nil
}

func (s *Session) extractFromArchive(archive string) (string, error) {
	entries, err := subtitles.ArchiveEntries(archive)
	if err != nil {
		s.warn("Could not read %s: %v", filepath.Base(archive), err)
		return "", errRestart
	}
	if len(entries) == 0 {
		s.warn("No .srt files inside %s", filepath.Base(archive))
		return "", errRestart
	}
	entry := entries[0]
	if len(entries) > 1 {
		idx, err := s.prompt.Select("Select SRT in archive:", entries, 0)
		if err != nil {
			return "", err
		}
		entry = entries[idx]
	}
	dir, err := os.MkdirTemp("", "substudio-archive-")
	if err != nil {
		return "", fmt.Errorf("create archive scratch directory: %w", err)
	}
	s.scratch = append(s.scratch, dir)
	path, err := subtitles.ExtractArchiveEntry(archive, entry, dir)
	if err != nil {
		s.warn("Could not extract %s: %v", entry, err)
		return "", errRestart
	}
	s.logger.Info("subtitle extracted from archive",
		logging.String("archive", archive),
		logging.String("entry", entry),
	)
	return path, nil
}

// selectStream lists the text subtitle streams of the chosen video.
func (s *Session) selectStream(ctx context.Context, req *job.Request) error {
	s.prompt.Theme().Hint.Fprintln(s.prompt.Out(), "Analyzing streams...")
	result, err := s.probe(ctx, s.cfg.FFprobeBinary(), req.VideoPath)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("stream probe failed", logging.String("input", req.VideoPath), logging.Error(err))
		s.warn("Could not read streams: %v", err)
		return errRestart
	}
	var streams []ffprobe.Stream
	skipped := 0
	for _, stream := range result.SubtitleStreams() {
		if stream.IsTextSubtitle() {
			streams = append(streams, stream)
		} else {
			skipped++
		}
	}
	if skipped > 0 {
		s.warn("Skipping %d image-based subtitle stream(s)", skipped)
	}
	if len(streams) == 0 {
		s.warn("No subtitle streams found in video!")
		return errRestart
	}
	labels := make([]string, len(streams))
	for i, stream := range streams {
		labels[i] = "Stream " + stream.Label()
	}
	idx, err := s.prompt.Select("Select Stream:", labels, 0)
	if err != nil {
		return err
	}
	index := streams[idx].Index
	req.StreamIndex = &index
	req.SubtitleLanguage = streams[idx].Tags.Language
	return nil
}

func (s *Session) selectStyle(req *job.Request) error {
	fonts, err := fileutil.ListByExt(s.cfg.Paths.FontsDir, fontExtensions...)
	if err != nil {
		return err
	}
	if len(fonts) > 0 {
		options := append([]string{defaultFontChoice}, baseNames(fonts)...)
		idx, err := s.prompt.Select("Font Family:", options, 0)
		if err != nil {
			return err
		}
		if idx > 0 {
			req.Style.FontPath = fonts[idx-1]
		}
	}

	configured := s.defaultColor()
	colorDefault := slices.Index(colorPresetHex, configured)
	if colorDefault < 0 {
		colorDefault = len(colorPresets)
	}
	idx, err := s.prompt.Select("Font Color:", append(slices.Clone(colorPresets), "Custom Hex"), colorDefault)
	if err != nil {
		return err
	}
	if idx < len(colorPresets) {
		req.Style.Color = colorPresets[idx]
	} else {
		value, err := s.prompt.Text("Enter Hex (e.g. FF00FF):", configured)
		if err != nil {
			return err
		}
		if !subtitles.ValidHexColor(value) {
			s.warn("Invalid hex colour %q, using %s.", value, configured)
			value = configured
		}
		req.Style.Color = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(value), "#"))
	}

	req.Style.OpaqueBox, err = s.prompt.Confirm("Add Background Box?", false)
	if err != nil {
		return err
	}

	def := slices.Index(sizePresets, req.Style.FontSize)
	if def < 0 {
		def = 1
	}
	idx, err = s.prompt.Select("Font Size:", sizeLabels, def)
	if err != nil {
		return err
	}
	if idx < len(sizePresets) {
		req.Style.FontSize = sizePresets[idx]
		return nil
	}
	raw, err := s.prompt.Text(fmt.Sprintf("Enter Size (%d-%d):", job.MinFontSize, job.MaxFontSize), strconv.Itoa(req.Style.FontSize))
	if err != nil {
		return err
	}
	size, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || size < job.MinFontSize || size > job.MaxFontSize {
		s.warn("Invalid size %q, using %d.", raw, job.DefaultFontSize)
		size = job.DefaultFontSize
	}
	req.Style.FontSize = size
	return nil
}

func (s *Session) selectVideoOptions(req *job.Request) error {
	resolutions := job.Resolutions()
	labels := make([]string, len(resolutions))
	for i, r := range resolutions {
		labels[i] = string(r)
	}
	idx, err := s.prompt.Select("Output Resolution:", labels, 0)
	if err != nil {
		return err
	}
	req.Resolution = resolutions[idx]

	logos, err := fileutil.ListByExt(s.cfg.Paths.LogosDir, logoExtensions...)
	if err != nil {
		return err
	}
	if len(logos) == 0 {
		return nil
	}
	options := append([]string{"None"}, baseNames(logos)...)
	idx, err = s.prompt.Select("Add Watermark:", options, 0)
	if err != nil || idx == 0 {
		return err
	}
	req.WatermarkPath = logos[idx-1]

	positions := job.Positions()
	labels = make([]string, len(positions))
	for i, p := range positions {
		labels[i] = string(p)
	}
	idx, err = s.prompt.Select("Watermark Position:", labels, 0)
	if err != nil {
		return err
	}
	req.WatermarkPosition = positions[idx]
	return nil
}

func (s *Session) defaultFontSize() int {
	size := s.cfg.Style.DefaultFontSize
	if size < job.MinFontSize || size > job.MaxFontSize {
		return job.DefaultFontSize
	}
	return size
}

// defaultColor is the configured colour as upper-case hex, or yellow when
// the configured value is unusable.
func (s *Session) defaultColor() string {
	color := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s.cfg.Style.DefaultColor), "#"))
	if !subtitles.ValidHexColor(color) {
		return job.DefaultColor
	}
	return color
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return names
}
