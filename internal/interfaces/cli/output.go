package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/postgres"
)

// Output formats accepted by -o.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// ValidOutputFormat reports whether f is a supported -o value.
func ValidOutputFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatTable, FormatMarkdown, FormatCSV:
		return true
	}
	return false
}

// tabular is implemented by results with a natural row form.
type tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// texter is implemented by results with a human summary.
type texter interface {
	Text() string
}

// Render writes data to w in format.
func Render(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatTable, FormatMarkdown, FormatCSV:
		t, ok := data.(tabular)
		if !ok {
			return Render(w, FormatText, data)
		}
		switch format {
		case FormatTable:
			_, err := io.WriteString(w, FormatAlignedTable(t.TableHeaders(), t.TableRows()))
			return err
		case FormatMarkdown:
			_, err := io.WriteString(w, FormatMarkdownTable(t.TableHeaders(), t.TableRows()))
			return err
		default:
			cw := csv.NewWriter(w)
			if err := cw.Write(t.TableHeaders()); err != nil {
				return err
			}
			if err := cw.WriteAll(t.TableRows()); err != nil {
				return err
			}
			return cw.Error()
		}
	default:
		if t, ok := data.(texter); ok {
			_, err := io.WriteString(w, t.Text())
			return err
		}
		_, err := fmt.Fprintf(w, "%+v\n", data)
		return err
	}
}

// FormatAlignedTable renders headers and rows as an aligned ASCII table.
func FormatAlignedTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, colWidths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// FormatMarkdownTable renders a GitHub-flavoured markdown table.
func FormatMarkdownTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	esc := strings.NewReplacer("|", `\|`, "\n", " ")

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = esc.Replace(row[i])
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// ─────────────────────────────────────────────────────────────────────────────
// Result views
// ─────────────────────────────────────────────────────────────────────────────

// analysisView renders one analysis.
type analysisView struct {
	*gapanalysis.AnalysisResult
}

func (v analysisView) TableHeaders() []string {
	return []string{"Coverage", "Category", "Status", "Severity", "Risk", "Est. Cost", "Recommendation"}
}

func (v analysisView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Report.Findings))
	for _, f := range v.Report.Findings {
		rows = append(rows, []string{
			f.CoverageName, f.Category, string(f.Status), string(f.Severity),
			string(f.RiskLevel), f.EstimatedCost, f.Recommendation,
		})
	}
	return rows
}

func (v analysisView) Text() string {
	r := v.Report
	var sb strings.Builder
	fmt.Fprintf(&sb, "Policy category: %s\n", r.PolicyCategory)
	fmt.Fprintf(&sb, "Region:          %s (%s tables)\n", r.Region, r.Path)
	fmt.Fprintf(&sb, "Overall score:   %d/100\n", r.OverallScore)
	fmt.Fprintf(&sb, "Gaps:            %d (%d critical)\n", r.TotalGapCount, r.CriticalGapCount)
	if v.Truncated {
		sb.WriteString("Note:            policy text was truncated before matching\n")
	}
	if len(r.Breakdown) > 0 {
		sb.WriteString("\nBreakdown:\n")
		for _, g := range r.Breakdown {
			fmt.Fprintf(&sb, "  %-14s %d/%d (%d%%)\n", g.Group, g.Covered, g.Total, g.Percentage)
		}
	}

	if plan := v.ActionPlan; plan != nil && len(plan.Items) > 0 {
		fmt.Fprintf(&sb, "\nAction plan (risk %d/100, %s):\n", plan.RiskScore, plan.RiskLevel)
		for _, item := range plan.Items {
			fmt.Fprintf(&sb, "  %d. [%s] %s: %s", item.Priority, item.Severity, item.CoverageName, item.Recommendation)
			if item.EstimatedCost != "" {
				fmt.Fprintf(&sb, " (%s)", item.EstimatedCost)
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("\nNo gaps found.\n")
	}
	return sb.String()
}

func (v analysisView) MarshalJSON() ([]byte, error) { return json.Marshal(v.AnalysisResult) }

// comparisonView renders a comparison.
type comparisonView struct {
	*coverage.Comparison
}

func (v comparisonView) TableHeaders() []string {
	return []string{"Coverage", "Severity", "Baseline", "Candidate", "Change"}
}

func (v comparisonView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Deltas))
	for _, d := range v.Deltas {
		rows = append(rows, []string{
			d.CoverageName, string(d.Severity), string(d.Baseline), string(d.Candidate), string(d.Change),
		})
	}
	return rows
}

func (v comparisonView) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Category: %s, region: %s\n", v.Baseline.PolicyCategory, v.Baseline.Region)
	fmt.Fprintf(&sb, "Score:    %d -> %d (%+d)\n", v.Baseline.OverallScore, v.Candidate.OverallScore, v.ScoreDelta)
	fmt.Fprintf(&sb, "Improved: %d, regressed: %d\n", v.Improved, v.Regressed)
	for _, d := range v.Deltas {
		if d.Change == coverage.ChangeUnchanged {
			continue
		}
		fmt.Fprintf(&sb, "  %-10s %s: %s -> %s\n", d.Change, d.CoverageName, orDash(string(d.Baseline)), orDash(string(d.Candidate)))
	}
	return sb.String()
}

func (v comparisonView) MarshalJSON() ([]byte, error) { return json.Marshal(v.Comparison) }

// benchmarksView renders benchmark tables.
type benchmarksView []gapanalysis.BenchmarkTable

func (v benchmarksView) TableHeaders() []string {
	return []string{"Region", "Category", "Coverage", "Tier", "Required Limit", "Est. Cost"}
}

func (v benchmarksView) TableRows() [][]string {
	var rows [][]string
	for _, t := range v {
		for _, e := range t.Entries {
			rows = append(rows, []string{
				string(t.Region), string(t.Category), e.CoverageName, string(e.Tier), e.RequiredLimit, e.EstimatedCost,
			})
		}
	}
	return rows
}

func (v benchmarksView) Text() string {
	var sb strings.Builder
	for i, t := range v {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s / %s\n", t.Region, t.Category)
		for _, e := range t.Entries {
			fmt.Fprintf(&sb, "  %-32s %-10s %s\n", e.CoverageName, e.Tier, e.RequiredLimit)
		}
	}
	return sb.String()
}

// migrationView renders migration state.
type migrationView struct {
	postgres.MigrationState
}

func (v migrationView) TableHeaders() []string { return []string{"Version", "Dirty"} }

func (v migrationView) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(v.Version), 10), strconv.FormatBool(v.Dirty)}}
}

func (v migrationView) Text() string {
	state := "clean"
	if v.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("schema version %d (%s)\n", v.Version, state)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

//Personal.AI order the ending
