package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// ExitCodeCriticalGaps is returned by analyze --fail-on-critical.
const ExitCodeCriticalGaps = 2

type analyzeOptions struct {
	text           string
	category       string
	region         string
	persist        bool
	failOnCritical bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Analyze one policy for benchmark coverage gaps",
		Long: "Reads policy wording from FILE, from stdin when FILE is \"-\", or from --text,\n" +
			"and reports each benchmark coverage as adequate, insufficient or missing.",
		Example: "  covergap analyze policy.txt --region US\n" +
			"  cat policy.txt | covergap analyze - -o json\n" +
			"  covergap analyze --text \"comprehensive car cover\" --fail-on-critical",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.text, "text", "", "policy text given inline")
	f.StringVar(&opts.category, "category", "", "policy category (car, home, business, life); inferred when empty")
	f.StringVar(&opts.region, "region", "", "benchmark region (UK, US, India, Europe); config default when empty")
	f.BoolVar(&opts.persist, "persist", false, "store, cache and publish the analysis through configured backends")
	f.BoolVar(&opts.failOnCritical, "fail-on-critical", false, fmt.Sprintf("exit %d when critical gaps are found", ExitCodeCriticalGaps))
	return cmd
}

// policyText resolves the policy wording from --text or the FILE argument.
func policyText(cmd *cobra.Command, inline string, args []string) (string, error) {
	switch {
	case inline != "" && len(args) > 0:
		return "", errors.InvalidInput("give policy text either with --text or as FILE, not both")
	case inline != "":
		return inline, nil
	case len(args) == 1:
		return readInput(cmd, args[0])
	default:
		return "", errors.InvalidInput("policy text is required").WithDetail("pass FILE, - for stdin, or --text")
	}
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	text, err := policyText(cmd, opts.text, args)
	if err != nil {
		return err
	}

	ctx, cancel := cc.WithTimeout(cmd.Context())
	defer cancel()

	a, err := cc.NewApp(ctx, opts.persist)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Service.Analyze(ctx, &gapanalysis.AnalyzeRequest{
		PolicyText: &text,
		Category:   opts.category,
		Region:     opts.region,
	})
	if err != nil {
		return err
	}

	if err := cc.Render(cmd, analysisView{res}); err != nil {
		return err
	}

	if opts.failOnCritical && res.Report.CriticalGapCount > 0 {
		return &ExitError{
			Code: ExitCodeCriticalGaps,
			Err:  fmt.Errorf("%d critical coverage gaps found", res.Report.CriticalGapCount),
		}
	}
	return nil
}

//Personal.AI order the ending
