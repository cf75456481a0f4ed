package studio

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"substudio/internal/job"
)

// panel renders lines inside a rounded box with a title.
func panel(title string, lines []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.Style().Title.Align = text.AlignLeft
	for _, line := range lines {
		tw.AppendRow(table.Row{line})
	}
	return tw.Render()
}

func summaryTable(fields []job.Field) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Job Summary")
	for _, field := range fields {
		tw.AppendRow(table.Row{field.Label, field.Value})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignLeft},
	})
	return tw.Render()
}
