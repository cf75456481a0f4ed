package studio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"substudio/internal/job"
	"substudio/internal/logging"
	"substudio/internal/services"
)

const (
	actionPreview = iota
	actionRender
	actionEdit
)

// review shows the summary and action menu until the job is rendered or
// the user chooses to edit it. Editing returns errRestart.
func (s *Session) review(ctx context.Context, req job.Request) error {
	out := s.prompt.Out()
	actions := []string{
		fmt.Sprintf("Preview (%ds)", s.previewSeconds()),
		"Start Render",
		"Edit Settings",
	}
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, summaryTable(req.Summary()))
		idx, err := s.prompt.Select("Ready?", actions, actionRender)
		if err != nil {
			return err
		}
		switch idx {
		case actionPreview:
			preview := req
			preview.Preview = true
			if err := s.render(ctx, preview); err != nil {
				return err
			}
			if err := s.prompt.Pause("\n[Press Enter to continue...]"); err != nil {
				return err
			}
		case actionRender:
			return s.render(ctx, req)
		default:
			return errRestart
		}
	}
}

// render runs one job and reports the outcome. Only cancellation is
// returned as an error; render failures are shown and the session goes on.
func (s *Session) render(ctx context.Context, req job.Request) error {
	label := "Rendering"
	if req.Preview {
		label = "Previewing"
	}
	reporter := s.newReporter(label)
	result, err := s.renderer.Run(ctx, req, reporter.Update)
	if err != nil {
		reporter.Abort()
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		s.showFailure(err)
		if !req.Preview {
			if notifyErr := s.notifier.NotifyRenderFailed(ctx, req.VideoPath, err); notifyErr != nil {
				s.logger.Warn("failure notification not sent", logging.Error(notifyErr))
			}
		}
		return nil
	}
	reporter.Finish()

	theme := s.prompt.Theme()
	out := s.prompt.Out()
	theme.Success.Fprintln(out, panel("SUCCESS", []string{"Saved to:", filepath.Base(result.OutputPath)}))
	if req.Preview {
		return nil
	}
	if err := s.notifier.NotifyRenderCompleted(ctx, result.OutputPath, result.Elapsed); err != nil {
		logging.WarnWithContext(s.logger, "completion notification not sent", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "render finished without a device notice"),
		)
		s.warn("Notification failed: %v", err)
	}
	return nil
}

func (s *Session) showFailure(err error) {
	theme := s.prompt.Theme()
	out := s.prompt.Out()
	theme.Error.Fprintln(out, "Render Failed!")

	var toolErr *services.ToolError
	if errors.As(err, &toolErr) && len(toolErr.Tail) > 0 {
		lines := append([]string{}, toolErr.Tail...)
		lines = append(lines, "", fmt.Sprintf("%s exited with code %d", toolErr.Tool, toolErr.ExitCode))
		theme.Error.Fprintln(out, panel("Error Log", lines))
		return
	}
	theme.Error.Fprintln(out, panel("Error Log", strings.Split(err.Error(), "\n")))
}

func (s *Session) previewSeconds() int {
	if s.cfg.FFmpeg.PreviewSeconds > 0 {
		return s.cfg.FFmpeg.PreviewSeconds
	}
	return 15
}
