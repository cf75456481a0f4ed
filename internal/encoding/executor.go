package encoding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run starts binary and calls onLine for every line it prints on stdout
	// or stderr. It returns the process error once the command has exited.
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// interruptGrace is how long ffmpeg gets to finish after SIGINT before it is
// killed.
const interruptGrace = 5 * time.Second

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("output pipe: %w", err)
	}
	defer reader.Close()

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	// stdout and stderr share one pipe so neither can fill up unread.
	cmd.Stdout = writer
	cmd.Stderr = writer
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = interruptGrace

	if err := cmd.Start(); err != nil {
		writer.Close()
		return fmt.Errorf("start command: %w", err)
	}
	writer.Close()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe drained so the process cannot block on a full buffer.
		_, _ = io.Copy(io.Discard, reader)
	}

	if err := cmd.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("scan output: %w", scanErr)
	}
	return nil
}
