package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spherical/chart-extractor/internal/extract"
)

// PageTable prints one row per extracted or failed page.
func PageTable(result *extract.Result) {
	if result == nil || len(result.Pages) == 0 {
		return
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	headers := []string{"PAGE", "STATUS", "CHARTS", "TITLES"}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, page := range result.Pages {
		fmt.Fprintln(w, strings.Join(pageRow(page), "\t"))
	}
	_ = w.Flush()

	if result.Skipped > 0 {
		Verbose("%d page(s) without an image were skipped", result.Skipped)
	}
}

func pageRow(page extract.PageResult) []string {
	if page.Err != nil {
		return []string{fmt.Sprint(page.Page), "failed", "-", page.Err.Error()}
	}

	titles := make([]string, 0, len(page.Document.Charts))
	for _, c := range page.Document.Charts {
		if c.Title != "" {
			titles = append(titles, c.Title)
		}
	}
	status := "ok"
	if !page.Document.HasCharts {
		status = "no charts"
	}
	return []string{
		fmt.Sprint(page.Page),
		status,
		fmt.Sprint(len(page.Document.Charts)),
		strings.Join(titles, ", "),
	}
}
