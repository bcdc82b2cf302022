// Package ui renders the server's HTML pages as templ components.
package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// JobListItem is the view model for one row of the job list.
type JobListItem struct {
	ID            string
	State         string
	Problem       string
	Size          int
	Steps         int
	InitialEnergy float64
	FinalEnergy   float64
	StartTime     time.Time
	EndTime       *time.Time
	Error         string
}

// JobList renders the job overview page.
func JobList(items []JobListItem) templ.Component {
	return templ.Join(
		templ.Raw(pageHeader),
		jobTable(items),
		templ.Raw(pageFooter),
	)
}

// jobTable renders the table of jobs, or a placeholder when there are
// none yet.
func jobTable(items []JobListItem) templ.Component {
	if len(items) == 0 {
		return templ.Raw(`<p class="empty">No jobs yet. POST to /api/v1/jobs to start one.</p>`)
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<table><tr><th>Job</th><th>State</th><th>Problem</th><th>Size</th><th>Steps</th><th>Energy</th><th>Started</th></tr>`); err != nil {
			return err
		}
		for _, item := range items {
			if err := jobRow(item).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</table>`)
		return err
	})
}

// jobRow renders one table row. All item-derived strings pass through
// the templ escaper.
func jobRow(item JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := item.ID
		if len(id) > 8 {
			id = id[:8]
		}

		energy := "-"
		if item.State == "completed" {
			energy = fmt.Sprintf("%.2f → %.2f", item.InitialEnergy, item.FinalEnergy)
		}
		if item.Error != "" {
			energy = item.Error
		}

		_, err := fmt.Fprintf(w,
			`<tr><td><a href="/api/v1/jobs/%s/status">%s</a></td><td class="state-%s">%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
			templ.EscapeString(item.ID),
			templ.EscapeString(id),
			templ.EscapeString(item.State),
			templ.EscapeString(item.State),
			templ.EscapeString(item.Problem),
			item.Size,
			item.Steps,
			templ.EscapeString(energy),
			item.StartTime.Format("2006-01-02 15:04:05"),
		)
		return err
	})
}

const pageHeader = `<!DOCTYPE html>
<html>
<head>
<title>anneal</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
.state-completed { color: #2a7; }
.state-failed { color: #c33; }
.state-running { color: #36c; }
.empty { color: #888; }
</style>
</head>
<body>
<h1>Annealing jobs</h1>
`

const pageFooter = `
</body>
</html>
`
