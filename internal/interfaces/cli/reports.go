package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/pkg/client"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// newAPIClient is replaced in tests.
var newAPIClient = func(baseURL string) (*client.Client, error) {
	return client.NewClient(baseURL, client.WithRetryMax(1), client.WithRetryWait(200*time.Millisecond, time.Second))
}

// serverURL resolves --server, defaulting to the configured local port.
func serverURL(cmd *cobra.Command, cc *CLIContext) string {
	if u, _ := cmd.Flags().GetString("server"); u != "" {
		return u
	}
	return "http://localhost:" + strconv.Itoa(cc.Config.Server.Port)
}

func remoteClient(cmd *cobra.Command) (*CLIContext, *client.Client, error) {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, err
	}
	c, err := newAPIClient(serverURL(cmd, cc))
	if err != nil {
		return nil, nil, err
	}
	return cc, c, nil
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Read stored analyses from a running server",
		Long: "Queries the report store of a covergap API server.  The server must run\n" +
			"with the database enabled; otherwise lists are empty and lookups fail.",
	}
	cmd.PersistentFlags().String("server", "", "API server base URL (default http://localhost:<server.port>)")

	var limit int
	list := &cobra.Command{
		Use:     "list",
		Short:   "List the most recent analyses",
		Example: "  covergap reports list --limit 5 -o table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return errors.InvalidInput("--limit must be positive").WithDetail(strconv.Itoa(limit))
			}
			cc, c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cc.WithTimeout(cmd.Context())
			defer cancel()

			reports, err := c.Coverage().ListReports(ctx, limit)
			if err != nil {
				return err
			}
			return cc.Render(cmd, reportListView(reports))
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of analyses")

	get := &cobra.Command{
		Use:     "get REPORT_ID",
		Short:   "Show one stored analysis",
		Example: "  covergap reports get 7f9c0e1a-... -o json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cc.WithTimeout(cmd.Context())
			defer cancel()

			a, err := c.Coverage().GetReport(ctx, args[0])
			if err != nil {
				return err
			}
			return cc.Render(cmd, remoteReportView{a})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check readiness of a running server",
		Long:  "Calls /readyz and exits non-zero when any backend is unhealthy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cc.WithTimeout(cmd.Context())
			defer cancel()

			ready, err := c.Ready(ctx)
			if ready != nil {
				if rerr := cc.Render(cmd, readinessView{ready}); rerr != nil {
					return rerr
				}
			}
			if err != nil && ready != nil {
				return &ExitError{Code: 1, Err: fmt.Errorf("server %s is %s", c.BaseURL(), ready.Status)}
			}
			return err
		},
	}
	cmd.Flags().String("server", "", "API server base URL (default http://localhost:<server.port>)")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

type reportListView []*client.Analysis

func (v reportListView) TableHeaders() []string {
	return []string{"ID", "Generated", "Category", "Region", "Score", "Gaps", "Critical"}
}

func (v reportListView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, a := range v {
		row := []string{a.ID, a.GeneratedAt.UTC().Format(time.RFC3339), "-", "-", "-", "-", "-"}
		if r := a.Report; r != nil {
			row[2] = r.PolicyCategory
			row[3] = r.Region
			row[4] = strconv.Itoa(r.OverallScore)
			row[5] = strconv.Itoa(r.TotalGapCount)
			row[6] = strconv.Itoa(r.CriticalGapCount)
		}
		rows = append(rows, row)
	}
	return rows
}

func (v reportListView) Text() string {
	if len(v) == 0 {
		return "No stored analyses.\n"
	}
	return FormatAlignedTable(v.TableHeaders(), v.TableRows())
}

type remoteReportView struct{ *client.Analysis }

func (v remoteReportView) TableHeaders() []string {
	return []string{"Coverage", "Status", "Severity", "Risk", "Est. Cost"}
}

func (v remoteReportView) TableRows() [][]string {
	if v.Report == nil {
		return nil
	}
	rows := make([][]string, 0, len(v.Report.Findings))
	for _, f := range v.Report.Findings {
		rows = append(rows, []string{f.CoverageName, f.Status, f.Severity, f.RiskLevel, orDash(f.EstimatedCost)})
	}
	return rows
}

func (v remoteReportView) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report %s (%s)\n", v.ID, v.GeneratedAt.UTC().Format(time.RFC3339))
	if r := v.Report; r != nil {
		fmt.Fprintf(&b, "%s/%s via %s: score %d%%, %d gaps (%d critical)\n",
			r.Region, r.PolicyCategory, r.AnalysisPath, r.OverallScore, r.TotalGapCount, r.CriticalGapCount)
		for _, f := range r.Findings {
			if f.IsGap() {
				fmt.Fprintf(&b, "  - %s: %s (%s)\n", f.CoverageName, f.Status, f.Severity)
			}
		}
	}
	return b.String()
}

type readinessView struct{ *client.Readiness }

func (v readinessView) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", v.Status)
	names := make([]string, 0, len(v.Components))
	for name := range v.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := v.Components[name]
		fmt.Fprintf(&b, "  %s: %s", name, c.Status)
		if c.Error != "" {
			fmt.Fprintf(&b, " (%s)", c.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

//Personal.AI order the ending
