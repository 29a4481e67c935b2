package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

type benchmarksOptions struct {
	region   string
	category string
}

func newBenchmarksCmd() *cobra.Command {
	opts := &benchmarksOptions{}

	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "List benchmark tables",
		Long: "Lists the benchmark tables in effect: the file named by\n" +
			"analyzer.benchmark_file, or the built-in tables when it is unset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			a, err := cc.NewApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			tables, err := a.Service.Benchmarks(opts.region, opts.category)
			if err != nil {
				return err
			}
			return cc.Render(cmd, benchmarksView(tables))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.region, "region", "", "only this region")
	f.StringVar(&opts.category, "category", "", "only this category")

	cmd.AddCommand(newBenchmarksExportCmd(), newBenchmarksCheckCmd())
	return cmd
}

func newBenchmarksExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the effective benchmark catalog as YAML",
		Long: "Writes the catalog in the format read by analyzer.benchmark_file, to FILE or\n" +
			"stdout.  Exporting the built-in tables is the starting point for a custom file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			m, err := app.NewMatcher(cc.Config.Analyzer)
			if err != nil {
				return err
			}
			data, err := coverage.MarshalCatalog(m.Catalog())
			if err != nil {
				return err
			}

			if len(args) == 0 || args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to write catalog").WithDetail(args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %s\n", args[0])
			return nil
		},
	}
}

// catalogSummary is the result of benchmarks check.
type catalogSummary struct {
	File    string   `json:"file"`
	Regions []string `json:"regions"`
	Tables  int      `json:"tables"`
	Entries int      `json:"entries"`
}

func (s catalogSummary) Text() string {
	return fmt.Sprintf("OK: %s has %d tables with %d entries across regions %v\n", s.File, s.Tables, s.Entries, s.Regions)
}

func newBenchmarksCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a benchmark catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			catalog, err := coverage.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}

			sum := catalogSummary{File: args[0]}
			for _, region := range catalog.Regions() {
				sum.Regions = append(sum.Regions, string(region))
				for _, category := range catalog.Categories(region) {
					table, _ := catalog.Table(region, category)
					sum.Tables++
					sum.Entries += len(table)
				}
			}
			return cc.Render(cmd, sum)
		},
	}
}

//Personal.AI order the ending
