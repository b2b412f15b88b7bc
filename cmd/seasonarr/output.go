package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/progress"
)

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// parsePosition converts a 1-based position argument to an index.
func parsePosition(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s position: %s", what, arg)
	}
	return n - 1, nil
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	ago := time.Since(t)

	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		days := int(ago.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func episodeTotal(s catalog.Series) int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}

func printSeriesTable(w io.Writer, series []catalog.Series, current string) {
	if len(series) == 0 {
		fmt.Fprintln(w, "No series")
		return
	}
	fmt.Fprintf(w, "  %-24s %-32s %7s %8s\n", "ID", "TITLE", "SEASONS", "EPISODES")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 74))
	for _, s := range series {
		marker := " "
		if s.ID == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-24s %-32s %7d %8d\n",
			marker, truncate(s.ID, 24), truncate(s.Title, 32), len(s.Seasons), episodeTotal(s))
	}
}

func printSeries(w io.Writer, s catalog.Series, expanded []int) {
	open := make(map[int]bool, len(expanded))
	for _, i := range expanded {
		open[i] = true
	}

	fmt.Fprintf(w, "%s (%s)\n", s.Title, s.ID)
	if s.OriginalTitle != "" && s.OriginalTitle != s.Title {
		fmt.Fprintf(w, "  Original title: %s\n", s.OriginalTitle)
	}
	if s.Studio != "" {
		fmt.Fprintf(w, "  Studio:         %s\n", s.Studio)
	}
	if s.ReleaseYear != 0 {
		fmt.Fprintf(w, "  Year:           %d\n", s.ReleaseYear)
	}
	if len(s.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:         %s\n", strings.Join(s.Genres, ", "))
	}
	if len(s.Values) > 0 {
		fmt.Fprintf(w, "  Values:         %s\n", strings.Join(s.Values, ", "))
	}
	if s.Synopsis != "" {
		fmt.Fprintf(w, "  Synopsis:       %s\n", truncate(s.Synopsis, 100))
	}

	fmt.Fprintln(w)
	if len(s.Seasons) == 0 {
		fmt.Fprintln(w, "  No seasons")
		return
	}
	for i, season := range s.Seasons {
		sign := "+"
		if open[i] {
			sign = "-"
		}
		title := season.Title
		if title == "" {
			title = fmt.Sprintf("Season %d", season.SeasonNumber)
		}
		fmt.Fprintf(w, "  [%s] %d. %s (S%d, %d episodes)\n", sign, i+1, title, season.SeasonNumber, season.EpisodeCount)
		if !open[i] {
			continue
		}
		for _, ep := range season.Episodes {
			fmt.Fprintf(w, "        %3d. %s (%dm)\n", ep.EpisodeNumber, truncate(ep.Title, 60), ep.Duration)
		}
	}
}

// progressPrinter redraws one status line per snapshot.
type progressPrinter struct {
	w     io.Writer
	width int
}

func (p *progressPrinter) print(s progress.Snapshot) {
	var bar string
	if s.Indeterminate {
		bar = "[ ... ]"
	} else {
		bar = fmt.Sprintf("[%4.0f%%]", s.Percent)
	}
	line := truncate(bar+" "+s.Status, 79)
	pad := p.width - len([]rune(line))
	if pad < 0 {
		pad = 0
	}
	p.width = len([]rune(line))
	fmt.Fprintf(p.w, "\r%s%s", line, strings.Repeat(" ", pad))
}

func (p *progressPrinter) finish() {
	if p.width > 0 {
		fmt.Fprintln(p.w)
	}
}
