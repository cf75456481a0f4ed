package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"substudio/internal/deps"
	"substudio/internal/encoding"
	"substudio/internal/logging"
	"substudio/internal/notifications"
	"substudio/internal/preflight"
	"substudio/internal/prompt"
	"substudio/internal/studio"
)

const logRetentionDays = 30

func runInteractive(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	logging.PruneSessionLogs(logger, cfg, logRetentionDays)

	if _, err := deps.Require("ffmpeg", cfg.FFmpegBinary()); err != nil {
		return err
	}
	if _, err := deps.Require("ffprobe", cfg.FFprobeBinary()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tty := isTerminal(out)
	theme := prompt.NewTheme(tty)
	for _, result := range preflight.Failed(preflight.RunAll(cmd.Context(), cfg)) {
		theme.Warn.Fprintf(out, "Warning: %s: %s\n", result.Name, result.Detail)
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}

	runner := encoding.NewRunner(encoding.SettingsFromConfig(cfg), logger)
	p := prompt.New(cmd.InOrStdin(), out).WithTheme(theme).WithDone(cmd.Context().Done())
	session := studio.New(cfg, p, runner, logger,
		studio.WithNotifier(notifications.NewService(cfg)),
		studio.WithProgressBar(tty),
	)
	if err := session.Run(cmd.Context()); err != nil {
		return fmt.Errorf("studio session: %w", err)
	}
	return nil
}
