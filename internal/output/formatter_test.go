package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pulseboard/pulseboard/internal/news"
	"github.com/pulseboard/pulseboard/internal/stats"
)

func sampleReport() *StatsReport {
	return &StatsReport{
		National: stats.Summary{AreaName: "England", SevenDayCases: 12345, HospitalCases: 830, TotalDeaths: 176000},
		Local:    stats.Summary{AreaName: "Exeter", SevenDayCases: 321},
	}
}

func TestOutputStats_JSON(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, true, &out, &errBuf)

	if err := f.OutputStats(sampleReport()); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}

	var decoded StatsReport
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if decoded.National.SevenDayCases != 12345 {
		t.Errorf("national seven day cases = %d, want 12345", decoded.National.SevenDayCases)
	}
	if decoded.Local.AreaName != "Exeter" {
		t.Errorf("local area = %q, want Exeter", decoded.Local.AreaName)
	}
}

func TestOutputStats_Text(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatText, true, &out, &errBuf)

	if err := f.OutputStats(sampleReport()); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "area=Exeter\tseven_day_cases=321") {
		t.Errorf("missing local line in output: %s", got)
	}
	if !strings.Contains(got, "area=England\tseven_day_cases=12345") {
		t.Errorf("missing national line in output: %s", got)
	}
}

func TestOutputStats_HumanCommas(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, true, &out, &errBuf)

	if err := f.OutputStats(sampleReport()); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "12,345") {
		t.Errorf("expected comma-separated count, got: %s", got)
	}
	if !strings.Contains(got, "176,000 total deaths") {
		t.Errorf("missing deaths line in output: %s", got)
	}
}

func TestOutputStats_HumanNoCommas(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, false, &out, &errBuf)

	if err := f.OutputStats(sampleReport()); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}
	if strings.Contains(out.String(), "12,345") {
		t.Errorf("commas should be disabled: %s", out.String())
	}
}

func TestOutputArticleList_JSON(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, true, &out, &errBuf)

	articles := []news.Article{
		{Title: "First", Body: "Summary one."},
		{Title: "Second", Body: "Summary two."},
	}

	if err := f.OutputArticleList(articles); err != nil {
		t.Fatalf("OutputArticleList failed: %v", err)
	}

	var decoded []news.Article
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(decoded))
	}
	if decoded[0].Title != "First" {
		t.Errorf("first article title = %q, want %q", decoded[0].Title, "First")
	}
}

func TestOutputArticleList_Human_Empty(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, true, &out, &errBuf)

	if err := f.OutputArticleList(nil); err != nil {
		t.Fatalf("OutputArticleList failed: %v", err)
	}
	if !strings.Contains(out.String(), "No articles") {
		t.Errorf("expected 'No articles', got: %s", out.String())
	}
}

func TestOutputUpdateList_Human(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, true, &out, &errBuf)

	updates := []UpdateView{
		{Title: "morning refresh", TargetTime: "09:00", Repeat: true, Content: "Refreshing stats"},
		{Title: "one-off", TargetTime: "17:30", Content: "Refreshing news"},
	}
	if err := f.OutputUpdateList(updates); err != nil {
		t.Fatalf("OutputUpdateList failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "morning refresh at 09:00 (daily)") {
		t.Errorf("missing repeat marker in output: %s", got)
	}
	if !strings.Contains(got, "one-off at 17:30\n") {
		t.Errorf("one-off line wrong: %s", got)
	}
}

func TestWarning(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, true, &out, &errBuf)

	f.Warning("something went %s", "wrong")

	got := errBuf.String()
	if !strings.Contains(got, "Warning: something went wrong") {
		t.Errorf("expected warning on stderr, got: %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got: %q", out.String())
	}
}

func TestError(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, true, &out, &errBuf)

	f.Error("failed: %d", 42)

	got := errBuf.String()
	if !strings.Contains(got, "failed: 42") {
		t.Errorf("expected error on stderr, got: %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got: %q", out.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"over length", "hello world", 5, "hello..."},
		{"with whitespace", "  hello  ", 10, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
