package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pulseboard/pulseboard/internal/news"
	"github.com/pulseboard/pulseboard/internal/stats"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatHuman Format = "human"
)

type Formatter struct {
	format Format
	commas bool
	out    io.Writer
	err    io.Writer
}

// NewFormatter creates a new output formatter. commas controls whether
// human-readable counts get thousands separators.
func NewFormatter(format Format, commas bool) *Formatter {
	return &Formatter{
		format: format,
		commas: commas,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// NewFormatterWithWriters creates a formatter with custom output writers for testability
func NewFormatterWithWriters(format Format, commas bool, out, errW io.Writer) *Formatter {
	return &Formatter{
		format: format,
		commas: commas,
		out:    out,
		err:    errW,
	}
}

// StatsReport pairs the national and local figures for one fetch.
type StatsReport struct {
	National stats.Summary `json:"national"`
	Local    stats.Summary `json:"local"`
}

// OutputStats outputs a stats report in the configured format
func (f *Formatter) OutputStats(report *StatsReport) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(report)
	case FormatText:
		for _, s := range []stats.Summary{report.Local, report.National} {
			fmt.Fprintf(f.out, "area=%s\tseven_day_cases=%d\thospital_cases=%d\ttotal_deaths=%d\n",
				s.AreaName, s.SevenDayCases, s.HospitalCases, s.TotalDeaths)
		}
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "%s: %s cases in the last 7 days\n",
			report.Local.AreaName, f.count(report.Local.SevenDayCases))
		fmt.Fprintf(f.out, "%s: %s cases in the last 7 days, %s in hospital, %s total deaths\n",
			report.National.AreaName,
			f.count(report.National.SevenDayCases),
			f.count(report.National.HospitalCases),
			f.count(report.National.TotalDeaths))
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputArticleList outputs a list of articles
func (f *Formatter) OutputArticleList(articles []news.Article) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(articles)
	case FormatText:
		for _, a := range articles {
			fmt.Fprintf(f.out, "title=%s\tbody=%s\n", a.Title, a.Body)
		}
		return nil
	case FormatHuman:
		if len(articles) == 0 {
			fmt.Fprintln(f.out, "No articles")
			return nil
		}
		fmt.Fprintf(f.out, "Headlines (%d):\n\n", len(articles))
		for _, a := range articles {
			if a.Title != "" {
				fmt.Fprintf(f.out, "• %s\n", a.Title)
			}
			if a.Body != "" {
				fmt.Fprintf(f.out, "  %s\n", truncate(a.Body, 300))
			}
			fmt.Fprintln(f.out, "---")
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// UpdateView is one scheduled update as shown to the user.
type UpdateView struct {
	Title      string `json:"title"`
	TargetTime string `json:"target_time"`
	Repeat     bool   `json:"repeat"`
	Content    string `json:"content"`
}

// OutputUpdateList outputs the scheduled updates
func (f *Formatter) OutputUpdateList(updates []UpdateView) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(updates)
	case FormatText:
		for _, u := range updates {
			fmt.Fprintf(f.out, "title=%s\tat=%s\trepeat=%t\tcontent=%s\n",
				u.Title, u.TargetTime, u.Repeat, u.Content)
		}
		return nil
	case FormatHuman:
		if len(updates) == 0 {
			fmt.Fprintln(f.out, "No scheduled updates")
			return nil
		}
		for _, u := range updates {
			repeat := ""
			if u.Repeat {
				repeat = " (daily)"
			}
			fmt.Fprintf(f.out, "%s at %s%s\n", u.Title, u.TargetTime, repeat)
			fmt.Fprintf(f.out, "  %s\n", u.Content)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// Error outputs an error message to stderr
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintf(f.err, format+"\n", args...)
}

// Warning outputs a warning message to stderr
func (f *Formatter) Warning(format string, args ...interface{}) {
	fmt.Fprintf(f.err, "Warning: "+format+"\n", args...)
}

func (f *Formatter) count(n int64) string {
	if f.commas {
		return humanize.Comma(n)
	}
	return fmt.Sprintf("%d", n)
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
