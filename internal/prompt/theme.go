package prompt

import "github.com/fatih/color"

// Theme colours prompt and status output.
type Theme struct {
	Title   *color.Color
	Option  *color.Color
	Hint    *color.Color
	Info    *color.Color
	Success *color.Color
	Warn    *color.Color
	Error   *color.Color
}

// NewTheme returns the studio palette. With enabled false every colour
// prints plain text.
func NewTheme(enabled bool) Theme {
	t := Theme{
		Title:   color.New(color.FgCyan, color.Bold),
		Option:  color.New(color.FgWhite),
		Hint:    color.New(color.FgHiBlack),
		Info:    color.New(color.FgCyan),
		Success: color.New(color.FgGreen, color.Bold),
		Warn:    color.New(color.FgYellow),
		Error:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{t.Title, t.Option, t.Hint, t.Info, t.Success, t.Warn, t.Error} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}
