package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

type compareOptions struct {
	category string
	region   string
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare BASELINE CANDIDATE",
		Short: "Compare benchmark coverage of two policies",
		Long: "Analyzes both files against the same benchmark table and lists coverages\n" +
			"that improved, regressed, or were added or removed.  The category is taken\n" +
			"from --category or inferred from BASELINE and then applied to both.",
		Example: "  covergap compare current.txt renewal.txt --region UK\n" +
			"  covergap compare - quote.txt < current.txt",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.category, "category", "", "policy category for both texts; inferred from BASELINE when empty")
	f.StringVar(&opts.region, "region", "", "benchmark region; config default when empty")
	return cmd
}

func runCompare(cmd *cobra.Command, opts *compareOptions, args []string) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if args[0] == "-" && args[1] == "-" {
		return errors.InvalidInput("only one of BASELINE and CANDIDATE may be read from stdin")
	}

	baseline, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	candidate, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	ctx, cancel := cc.WithTimeout(cmd.Context())
	defer cancel()

	a, err := cc.NewApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	cmp, err := a.Service.Compare(ctx, &gapanalysis.CompareRequest{
		BaselineText:  &baseline,
		CandidateText: &candidate,
		Category:      opts.category,
		Region:        opts.region,
	})
	if err != nil {
		return err
	}
	return cc.Render(cmd, comparisonView{cmp})
}

//Personal.AI order the ending
