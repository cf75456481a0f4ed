package studio

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"substudio/internal/config"
	"substudio/internal/encoding"
	"substudio/internal/job"
	"substudio/internal/logging"
	"substudio/internal/media/ffprobe"
	"substudio/internal/prompt"
	"substudio/internal/services"
)

type stubRenderer struct {
	requests []job.Request
	err      error
	onRun    func(req job.Request)
}

func (r *stubRenderer) Run(_ context.Context, req job.Request, onProgress func(encoding.Progress)) (encoding.Result, error) {
	r.requests = append(r.requests, req)
	if r.onRun != nil {
		r.onRun(req)
	}
	if r.err != nil {
		return encoding.Result{}, r.err
	}
	onProgress(encoding.Progress{Percent: 50})
	onProgress(encoding.Progress{Percent: 100, Done: true})
	prefix := "FINAL_"
	if req.Preview {
		prefix = "PREVIEW_"
	}
	stem := strings.TrimSuffix(filepath.Base(req.VideoPath), filepath.Ext(req.VideoPath))
	return encoding.Result{OutputPath: "/out/" + prefix + stem + ".mp4", Preview: req.Preview, Elapsed: time.Second}, nil
}

type stubNotifier struct {
	completed []string
	failed    []string
	err       error
}

func (n *stubNotifier) NotifyRenderCompleted(_ context.Context, outputPath string, _ time.Duration) error {
	n.completed = append(n.completed, outputPath)
	return n.err
}

func (n *stubNotifier) NotifyRenderFailed(_ context.Context, videoPath string, _ error) error {
	n.failed = append(n.failed, videoPath)
	return n.err
}

func (n *stubNotifier) TestNotification(context.Context) error { return n.err }

type fixture struct {
	cfg      *config.Config
	renderer *stubRenderer
	notifier *stubNotifier
	out      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.InputDir = filepath.Join(base, "Input")
	cfg.Paths.SubtitlesDir = filepath.Join(base, "Subtitles")
	cfg.Paths.OutputDir = filepath.Join(base, "Output")
	cfg.Paths.FontsDir = filepath.Join(base, "Fonts")
	cfg.Paths.LogosDir = filepath.Join(base, "Logos")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &fixture{
		cfg:      &cfg,
		renderer: &stubRenderer{},
		notifier: &stubNotifier{},
		out:      &bytes.Buffer{},
	}
}

func (f *fixture) write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (f *fixture) session(input string, opts ...Option) *Session {
	p := prompt.New(strings.NewReader(input), f.out)
	opts = append([]Option{WithNotifier(f.notifier)}, opts...)
	return New(f.cfg, p, f.renderer, logging.NewNop(), opts...)
}

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\n"

func answers(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestHardsubRenderCollectsRequest(t *testing.T) {
	f := newFixture(t)
	video := f.write(t, f.cfg.Paths.InputDir, "movie.mkv", "video")
	srt := f.write(t, f.cfg.Paths.SubtitlesDir, "movie.en.srt", sampleSRT)

	input := answers(
		"1", // video
		"1", // Hardsub (SRT)
		"1", // subtitle
		"2", // White
		"y", // background box
		"",  // size default 48
		"2", // 720p
		"2", // Start Render
		"",  // another? no
	)
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(f.renderer.requests) != 1 {
		t.Fatalf("expected one render, got %d", len(f.renderer.requests))
	}
	req := f.renderer.requests[0]
	if req.VideoPath != video || req.Mode != job.ModeHardsubSRT || req.SubtitlePath != srt {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.Style.Color != "White" || !req.Style.OpaqueBox || req.Style.FontSize != 48 || req.Style.FontPath != "" {
		t.Fatalf("unexpected style %#v", req.Style)
	}
	if req.Resolution != job.Resolution720p || req.SubtitleLanguage != "en" || req.Preview {
		t.Fatalf("unexpected options %#v", req)
	}
	output := f.out.String()
	for _, want := range []string{"Job Summary", "SUCCESS", "FINAL_movie.mp4", "Goodbye!"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if len(f.notifier.completed) != 1 {
		t.Fatalf("expected completion notification, got %v", f.notifier.completed)
	}
}

func TestPreviewReturnsToActionMenu(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "clip.mp4", "video")
	f.write(t, f.cfg.Paths.SubtitlesDir, "clip.srt", sampleSRT)

	input := answers("1", "2", "1", "", "1", "", "2", "n")
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(f.renderer.requests) != 2 {
		t.Fatalf("expected preview and render, got %d", len(f.renderer.requests))
	}
	if !f.renderer.requests[0].Preview || f.renderer.requests[1].Preview {
		t.Fatalf("unexpected preview flags %#v", f.renderer.requests)
	}
	if f.renderer.requests[1].Mode != job.ModeSoftsub {
		t.Fatalf("expected softsub, got %s", f.renderer.requests[1].Mode)
	}
	if !strings.Contains(f.out.String(), "PREVIEW_clip.mp4") || !strings.Contains(f.out.String(), "[Press Enter to continue...]") {
		t.Fatalf("expected preview output:\n%s", f.out.String())
	}
	if len(f.notifier.completed) != 1 || strings.Contains(f.notifier.completed[0], "PREVIEW_") {
		t.Fatalf("expected only the full render to notify, got %v", f.notifier.completed)
	}
}

func TestNoVideosExits(t *testing.T) {
	f := newFixture(t)
	if err := f.session("").Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(f.out.String(), "No videos found") {
		t.Fatalf("expected no-videos message:\n%s", f.out.String())
	}
}

func TestInternalWithoutStreamsRestarts(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mkv", "video")
	probe := func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{
			{Index: 0, CodecType: "video"},
			{Index: 2, CodecType: "subtitle", CodecName: "hdmv_pgs_subtitle"},
		}}, nil
	}

	err := f.session(answers("1", "3"), WithProbe(probe)).Run(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled after input ends, got %v", err)
	}
	output := f.out.String()
	for _, want := range []string{"Skipping 1 image-based", "No subtitle streams found in video!", "Aborted by user."} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Count(output, "Select Video:") != 2 {
		t.Fatalf("expected the session to return to video selection:\n%s", output)
	}
	if len(f.renderer.requests) != 0 {
		t.Fatal("renderer must not run")
	}
}

func TestInternalStreamSelection(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mkv", "video")
	probe := func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{
			{Index: 0, CodecType: "video"},
			{Index: 3, CodecType: "subtitle", CodecName: "subrip", Tags: ffprobe.Tags{Language: "eng"}},
			{Index: 4, CodecType: "subtitle", CodecName: "ass", Tags: ffprobe.Tags{Language: "spa", Title: "Signs"}},
		}}, nil
	}

	input := answers("1", "3", "2", "3", "FF00FF", "", "4", "72", "", "2", "")
	if err := f.session(input, WithProbe(probe)).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	req := f.renderer.requests[0]
	if req.StreamIndex == nil || *req.StreamIndex != 4 || req.SubtitleLanguage != "spa" {
		t.Fatalf("unexpected stream selection %#v", req)
	}
	if req.Style.Color != "FF00FF" || req.Style.FontSize != 72 || req.Style.OpaqueBox {
		t.Fatalf("unexpected style %#v", req.Style)
	}
	if !strings.Contains(f.out.String(), "Stream #4 ass (spa) Signs") {
		t.Fatalf("expected stream label in output:\n%s", f.out.String())
	}
}

func TestInvalidCustomValuesFallBack(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	f.write(t, f.cfg.Paths.SubtitlesDir, "movie.srt", sampleSRT)

	input := answers("1", "1", "1", "3", "zzz", "", "4", "500", "", "2", "")
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	style := f.renderer.requests[0].Style
	if style.Color != job.DefaultColor || style.FontSize != job.DefaultFontSize {
		t.Fatalf("expected fallbacks, got %#v", style)
	}
	if !strings.Contains(f.out.String(), "Invalid hex colour") || !strings.Contains(f.out.String(), "Invalid size") {
		t.Fatalf("expected warnings:\n%s", f.out.String())
	}
}

func TestConfiguredColorIsOfferedAsDefault(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"custom hex", "00ff00", "00FF00"},
		{"preset", "FFFFFF", "White"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.Style.DefaultColor = tt.configured
			f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
			f.write(t, f.cfg.Paths.SubtitlesDir, "movie.srt", sampleSRT)

			// Enter on the colour menu, and on the hex prompt when it is shown.
			lines := []string{"1", "1", "1", ""}
			if tt.want == "00FF00" {
				lines = append(lines, "")
			}
			lines = append(lines, "", "", "", "2", "")
			if err := f.session(answers(lines...)).Run(context.Background()); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if got := f.renderer.requests[0].Style.Color; got != tt.want {
				t.Fatalf("Color = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFontAndWatermarkSelection(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	f.write(t, f.cfg.Paths.SubtitlesDir, "movie.srt", sampleSRT)
	font := f.write(t, f.cfg.Paths.FontsDir, "Bangers.ttf", "font")
	logo := f.write(t, f.cfg.Paths.LogosDir, "logo.png", "png")

	input := answers(
		"1", "1", "1",
		"2", // Bangers.ttf
		"1", "", "",
		"",  // Original
		"2", // logo.png
		"5", // Center
		"2", "",
	)
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	req := f.renderer.requests[0]
	if req.Style.FontPath != font || req.WatermarkPath != logo || req.WatermarkPosition != job.PositionCenter {
		t.Fatalf("unexpected request %#v", req)
	}
	if !strings.Contains(f.out.String(), defaultFontChoice) {
		t.Fatalf("expected the default font entry:\n%s", f.out.String())
	}
}

func TestVideoOnlySkipsSubtitleQuestions(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")

	if err := f.session(answers("1", "4", "3", "2", "")).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	req := f.renderer.requests[0]
	if req.Mode != job.ModeNone || req.Resolution != job.Resolution480p || req.SubtitlePath != "" {
		t.Fatalf("unexpected request %#v", req)
	}
	if strings.Contains(f.out.String(), "Font Color:") {
		t.Fatal("video-only jobs must not ask for styling")
	}
}

func TestEditSettingsRestarts(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")

	input := answers("1", "4", "", "3", "1", "4", "", "2", "")
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(f.renderer.requests) != 1 {
		t.Fatalf("expected a single render after editing, got %d", len(f.renderer.requests))
	}
	if strings.Count(f.out.String(), "Select Video:") != 2 {
		t.Fatalf("expected video selection twice:\n%s", f.out.String())
	}
}

func TestRenderFailureShowsErrorLog(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	f.renderer.err = &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Tail: []string{"Error opening filters!"}}

	if err := f.session(answers("1", "4", "", "2", "")).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	output := f.out.String()
	for _, want := range []string{"Render Failed!", "Error Log", "Error opening filters!", "ffmpeg exited with code 1"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if len(f.notifier.failed) != 1 || len(f.notifier.completed) != 0 {
		t.Fatalf("unexpected notifications %#v", f.notifier)
	}
}

func TestNotificationFailureIsWarning(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	f.notifier.err = errors.New("ntfy unreachable")

	if err := f.session(answers("1", "4", "", "2", "")).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(f.out.String(), "Notification failed: ntfy unreachable") {
		t.Fatalf("expected notification warning:\n%s", f.out.String())
	}
}

func TestCancelDuringRenderAborts(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.renderer.onRun = func(job.Request) { cancel() }
	f.renderer.err = errors.New("ffmpeg interrupted: context canceled")

	err := f.session(answers("1", "4", "", "2", "")).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.Contains(f.out.String(), "Aborted by user.") || strings.Contains(f.out.String(), "Render Failed!") {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
}

func TestArchiveSubtitleIsExtracted(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.Paths.InputDir, "movie.mp4", "video")
	archive := filepath.Join(f.cfg.Paths.SubtitlesDir, "subs.zip")
	writeZip(t, archive, map[string]string{
		"readme.txt":        "ignore me",
		"subs/movie.fr.srt": sampleSRT,
	})

	var extracted string
	f.renderer.onRun = func(req job.Request) {
		extracted = req.SubtitlePath
		data, err := os.ReadFile(req.SubtitlePath)
		if err != nil || string(data) != sampleSRT {
			t.Errorf("extracted subtitle unreadable: %v %q", err, data)
		}
	}

	input := answers("1", "2", "1", "", "2", "")
	if err := f.session(input).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	req := f.renderer.requests[0]
	if filepath.Base(extracted) != "movie.fr.srt" || req.SubtitleLanguage != "fr" {
		t.Fatalf("unexpected subtitle %q lang %q", extracted, req.SubtitleLanguage)
	}
	if _, err := os.Stat(extracted); !os.IsNotExist(err) {
		t.Fatalf("expected scratch copy removed, stat err=%v", err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(file)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}
