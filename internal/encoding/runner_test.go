package encoding

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"substudio/internal/job"
	"substudio/internal/logging"
	"substudio/internal/media/ffprobe"
	"substudio/internal/services"
)

// stubExecutor records invocations and writes a file at the last argument so
// the runner sees ffmpeg output.
type stubExecutor struct {
	lines   []string
	err     error
	content string
	calls   int
	args    [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onLine(line)
	}
	if s.err != nil {
		return s.err
	}
	content := s.content
	if content == "" {
		content = "rendered"
	}
	return os.WriteFile(args[len(args)-1], []byte(content), 0o644)
}

func stubProbe(result ffprobe.Result) ProbeFunc {
	return func(context.Context, string, string) (ffprobe.Result, error) {
		return result, nil
	}
}

func newTestRunner(f fixture, exec Executor, probe ffprobe.Result) *Runner {
	return NewRunner(f.settings(), logging.NewNop(), WithExecutor(exec), WithProbe(stubProbe(probe)))
}

func outputFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Name() == LockFileName {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func TestRunFailsBeforeExecutingWhenInputMissing(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{}
	runner := newTestRunner(f, exec, ffprobe.Result{})

	_, err := runner.Run(context.Background(), job.New(filepath.Join(f.dir, "missing.mkv"), job.ModeNone), nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatalf("executor must not run, got %d calls", exec.calls)
	}
}

func TestRunPlacesOutputAndReportsProgress(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{lines: []string{"frame=10", "out_time_us=50000000", "speed=2.0x", "out_time_ms=75000000", "progress=end"}}
	runner := newTestRunner(f, exec, ffprobe.Result{Format: ffprobe.Format{Duration: "100.0"}})

	req := job.New(f.video, job.ModeHardsubSRT)
	req.SubtitlePath = f.subtitle
	var updates []Progress
	result, err := runner.Run(context.Background(), req, func(p Progress) { updates = append(updates, p) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := filepath.Join(f.output, "FINAL_movie.mp4"); result.OutputPath != want {
		t.Fatalf("expected %s, got %s", want, result.OutputPath)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Fatalf("expected output to exist: %v", err)
	}
	if names := outputFiles(t, f.output); !slices.Equal(names, []string{"FINAL_movie.mp4"}) {
		t.Fatalf("expected only the final file in output dir, got %v", names)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 progress updates, got %d", len(updates))
	}
	if updates[0].Percent != 50 || updates[1].Percent != 75 || !updates[2].Done || updates[2].Percent != 100 {
		t.Fatalf("unexpected progress sequence %+v", updates)
	}
	if result.SubtitleCues != 1 {
		t.Fatalf("expected 1 subtitle cue, got %d", result.SubtitleCues)
	}
	args := exec.args[0]
	if args[len(args)-1] == result.OutputPath || !strings.Contains(args[len(args)-1], ".partial") {
		t.Fatalf("ffmpeg must write to the partial path, got %s", args[len(args)-1])
	}
}

func TestRunFailureLeavesNoOutput(t *testing.T) {
	f := newFixture(t)
	var lines []string
	for i := range 30 {
		lines = append(lines, "line "+strings.Repeat("x", i))
	}
	lines = append(lines, "Error opening output file")
	exec := &stubExecutor{lines: lines, err: errors.New("exit status 1")}
	runner := newTestRunner(f, exec, ffprobe.Result{})

	_, err := runner.Run(context.Background(), job.New(f.video, job.ModeNone), nil)
	var toolErr *services.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if len(toolErr.Tail) != TailLines || toolErr.Tail[len(toolErr.Tail)-1] != "Error opening output file" {
		t.Fatalf("unexpected tail %v", toolErr.Tail)
	}
	if names := outputFiles(t, f.output); len(names) != 0 {
		t.Fatalf("expected empty output dir, got %v", names)
	}
}

func TestRunCanceledMapsToCanceledExit(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	exec := &cancelingExecutor{cancel: cancel}
	runner := NewRunner(f.settings(), logging.NewNop(), WithExecutor(exec), WithProbe(stubProbe(ffprobe.Result{})))

	req := job.New(f.video, job.ModeNone)
	req.Preview = true
	_, err := runner.Run(ctx, req, nil)
	if services.ExitCode(err) != services.ExitCanceled {
		t.Fatalf("expected canceled exit code, got %d (%v)", services.ExitCode(err), err)
	}
	if names := outputFiles(t, f.output); len(names) != 0 {
		t.Fatalf("expected partial output removed, got %v", names)
	}
}

type cancelingExecutor struct {
	cancel context.CancelFunc
}

func (c *cancelingExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	if err := os.WriteFile(args[len(args)-1], []byte("partial"), 0o644); err != nil {
		return err
	}
	c.cancel()
	return errors.New("signal: interrupt")
}

func TestRunTwiceProducesDistinctFiles(t *testing.T) {
	f := newFixture(t)
	runner := newTestRunner(f, &stubExecutor{}, ffprobe.Result{})
	req := job.New(f.video, job.ModeNone)

	first, err := runner.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runner.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.OutputPath == second.OutputPath {
		t.Fatalf("expected distinct outputs, both %s", first.OutputPath)
	}
	if filepath.Base(second.OutputPath) != "FINAL_movie_2.mp4" {
		t.Fatalf("unexpected second name %s", second.OutputPath)
	}
	for _, path := range []string{first.OutputPath, second.OutputPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}
}

func TestRunPreviewUsesPreviewName(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{lines: []string{"out_time_us=7500000"}}
	runner := newTestRunner(f, exec, ffprobe.Result{})
	req := job.New(f.video, job.ModeNone)
	req.Preview = true

	var last Progress
	result, err := runner.Run(context.Background(), req, func(p Progress) { last = p })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if filepath.Base(result.OutputPath) != "PREVIEW_movie.mp4" || !result.Preview {
		t.Fatalf("unexpected preview result %+v", result)
	}
	if last.Percent != 50 {
		t.Fatalf("expected percent against the 15s preview window, got %v", last.Percent)
	}
}

func TestRunInternalHardsubExtractsStream(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{content: sampleSRT}
	probe := ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "h264"},
		{Index: 2, CodecType: "subtitle", CodecName: "subrip"},
		{Index: 3, CodecType: "subtitle", CodecName: "hdmv_pgs_subtitle"},
	}}
	runner := newTestRunner(f, exec, probe)

	index := 2
	req := job.New(f.video, job.ModeHardsubInternal)
	req.StreamIndex = &index
	result, err := runner.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exec.calls != 2 {
		t.Fatalf("expected extract and render calls, got %d", exec.calls)
	}
	if !hasPair(exec.args[0], "-map", "0:2") {
		t.Fatalf("expected stream extraction args, got %v", exec.args[0])
	}
	extracted := exec.args[0][len(exec.args[0])-1]
	if !strings.Contains(strings.Join(exec.args[1], " "), "subtitles='"+EscapeFilterPath(extracted)+"'") {
		t.Fatalf("expected extracted file to be burned: %v", exec.args[1])
	}
	if _, err := os.Stat(extracted); !os.IsNotExist(err) {
		t.Fatalf("expected extracted subtitle to be removed, stat err=%v", err)
	}
	if names := outputFiles(t, f.output); !slices.Equal(names, []string{filepath.Base(result.OutputPath)}) {
		t.Fatalf("unexpected output dir contents %v", names)
	}
}

func TestRunInternalHardsubRejectsUnknownOrImageStreams(t *testing.T) {
	f := newFixture(t)
	probe := ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 3, CodecType: "subtitle", CodecName: "hdmv_pgs_subtitle"},
	}}
	for _, index := range []int{1, 3} {
		exec := &stubExecutor{}
		runner := newTestRunner(f, exec, probe)
		req := job.New(f.video, job.ModeHardsubInternal)
		req.StreamIndex = &index
		if _, err := runner.Run(context.Background(), req, nil); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("stream %d: expected validation error, got %v", index, err)
		}
		if exec.calls != 0 {
			t.Fatalf("stream %d: executor must not run", index)
		}
	}
}

func TestRunFailsFastWhenOutputLocked(t *testing.T) {
	f := newFixture(t)
	if err := os.MkdirAll(f.output, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(f.output, LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("failed to take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	exec := &stubExecutor{}
	runner := newTestRunner(f, exec, ffprobe.Result{})
	if _, err := runner.Run(context.Background(), job.New(f.video, job.ModeNone), nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error while locked, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("executor must not run while the output directory is locked")
	}
}
