package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrAborted is returned when input ends before an answer is given.
var ErrAborted = errors.New("input aborted")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	theme Theme

	done    <-chan struct{}
	pending chan answer
}

type answer struct {
	line string
	err  error
}

// New returns a prompter. Colour is off until WithTheme is applied.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, theme: NewTheme(false)}
}

// WithTheme sets the colour theme and returns p.
func (p *Prompter) WithTheme(theme Theme) *Prompter {
	p.theme = theme
	return p
}

// Theme returns the active theme.
func (p *Prompter) Theme() Theme {
	return p.theme
}

// WithDone makes pending reads return ErrAborted once done is closed. A read
// blocked on a terminal cannot be interrupted otherwise.
func (p *Prompter) WithDone(done <-chan struct{}) *Prompter {
	p.done = done
	return p
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// readLine returns one trimmed answer. A final line without a newline still
// counts; a bare end of input is ErrAborted.
func (p *Prompter) readLine() (string, error) {
	line, err := p.next()
	if errors.Is(err, ErrAborted) {
		return "", err
	}
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrAborted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Select shows a numbered menu and returns the zero-based index of the chosen
// option. defaultIndex is used for an empty answer; pass -1 to require one.
func (p *Prompter) Select(title string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("select %q: no options", title)
	}
	if defaultIndex >= len(options) {
		defaultIndex = -1
	}
	p.theme.Title.Fprintf(p.out, "\n%s\n", title)
	for i, option := range options {
		p.theme.Hint.Fprintf(p.out, "  %2d) ", i+1)
		p.theme.Option.Fprintln(p.out, option)
	}
	for {
		if defaultIndex >= 0 {
			fmt.Fprintf(p.out, "Choice [%d]: ", defaultIndex+1)
		} else {
			fmt.Fprint(p.out, "Choice: ")
		}
		answer, err := p.readLine()
		if err != nil {
			return -1, err
		}
		if answer == "" && defaultIndex >= 0 {
			return defaultIndex, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(options) {
			p.theme.Error.Fprintf(p.out, "Invalid choice, enter a number between 1 and %d.\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		p.theme.Title.Fprint(p.out, question)
		fmt.Fprintf(p.out, " [%s]: ", hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.theme.Error.Fprintln(p.out, "Please answer y or n.")
	}
}

// Text asks for a free-form value; an empty answer returns def.
func (p *Prompter) Text(question, def string) (string, error) {
	p.theme.Title.Fprint(p.out, question)
	if def != "" {
		fmt.Fprintf(p.out, " [%s]", def)
	}
	fmt.Fprint(p.out, " ")
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Pause prints message and waits for Enter.
func (p *Prompter) Pause(message string) error {
	p.theme.Hint.Fprint(p.out, message)
	_, err := p.next()
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return err
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return ErrAborted
		}
		return fmt.Errorf("read answer: %w", err)
	}
	return nil
}

// next reads one raw line. With a done channel the read runs on a goroutine
// so that cancellation does not wait for input; an abandoned read is picked
// up by the following call.
func (p *Prompter) next() (string, error) {
	if p.done == nil {
		return p.in.ReadString('\n')
	}
	if p.pending == nil {
		ch := make(chan answer, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- answer{line: line, err: err}
		}()
		p.pending = ch
	}
	select {
	case a := <-p.pending:
		p.pending = nil
		return a.line, a.err
	case <-p.done:
		fmt.Fprintln(p.out)
		return "", ErrAborted
	}
}
