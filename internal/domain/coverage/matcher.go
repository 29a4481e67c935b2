// Package coverage implements the benchmark gap matcher: it compares policy
// text against regional benchmark tables and produces a scored gap report.
//
// Matching is deliberately lexical.  Presence is a lower-cased substring test
// against the coverage name and its synonyms.  Limit adequacy is a single
// document-wide check: any currency amount, percentage or limit phrase
// anywhere in the text marks every present coverage as adequate.  It does not
// associate a limit with the coverage it belongs to.
package coverage

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

var (
	currencyPattern   = regexp.MustCompile(`[£$€₹][\d,]+`)
	percentagePattern = regexp.MustCompile(`\d+(\.\d+)?\s*%`)
)

// Input is one analysis request.  Category and Region are free-form; empty
// values mean "infer" and "default region" respectively.
type Input struct {
	Text     string
	Category string
	Region   string
	// DisableInference treats an unrecognised Category as general instead of
	// inferring one from Text.
	DisableInference bool
}

// Matcher evaluates policy text against a Catalog.  It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher returns a Matcher bound to catalog.
func NewMatcher(catalog *Catalog) (*Matcher, error) {
	if catalog == nil {
		return nil, errors.InternalConfiguration("benchmark catalog is nil")
	}
	return &Matcher{catalog: catalog}, nil
}

// Catalog returns the catalog the matcher was built with.
func (m *Matcher) Catalog() *Catalog { return m.catalog }

// Analyze produces the gap report for in.  Text with no recognisable content
// is not an error; it yields a report with every finding missing.
func (m *Matcher) Analyze(in Input) (*Report, error) {
	if !utf8.ValidString(in.Text) {
		return nil, errors.InvalidInput("policy text is not valid UTF-8")
	}

	lower := strings.ToLower(in.Text)
	category, ok := ParseCategory(in.Category)
	switch {
	case ok:
	case in.DisableInference:
		category = CategoryGeneral
	default:
		category = m.inferLower(lower)
	}
	region, _ := m.catalog.ResolveRegion(in.Region)

	report := &Report{
		PolicyCategory: category,
		Region:         region,
		LimitIndicator: m.hasLimitIndicator(lower),
	}

	table, found := m.catalog.Table(region, category)
	if found {
		if len(table) == 0 {
			return nil, errors.Newf(errors.ErrCodeInternalConfiguration,
				"benchmark table %s/%s is empty", region, category)
		}
		report.Path = PathBenchmark
		report.Findings = m.evaluateBenchmarks(lower, table, report.LimitIndicator)
	} else {
		report.Path = PathGeneric
		report.Findings = m.evaluateGeneric(lower)
	}

	aggregate(report)
	return report, nil
}

// InferCategory scores text against each category's keyword list and returns
// the best match, or CategoryGeneral when nothing matches.
func (m *Matcher) InferCategory(text string) PolicyCategory {
	return m.inferLower(strings.ToLower(text))
}

func (m *Matcher) inferLower(lower string) PolicyCategory {
	best, bestScore := CategoryGeneral, 0
	for _, category := range InferenceOrder {
		score := 0
		for _, kw := range m.catalog.keywords[category] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		// Strictly greater keeps the earlier category on ties.
		if score > bestScore {
			best, bestScore = category, score
		}
	}
	return best
}

// HasLimitIndicator reports whether text contains any currency amount,
// percentage or limit phrase.
func (m *Matcher) HasLimitIndicator(text string) bool {
	return m.hasLimitIndicator(strings.ToLower(text))
}

func (m *Matcher) hasLimitIndicator(lower string) bool {
	if currencyPattern.MatchString(lower) || percentagePattern.MatchString(lower) {
		return true
	}
	for _, phrase := range m.catalog.limits {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func (m *Matcher) present(lower, coverage string) bool {
	for _, needle := range m.catalog.needles(coverage) {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

func (m *Matcher) evaluateBenchmarks(lower string, table []BenchmarkEntry, limitFound bool) []Finding {
	findings := make([]Finding, 0, len(table))
	for _, e := range table {
		f := Finding{
			Category:      e.Tier.Group(),
			CoverageName:  e.CoverageName,
			Severity:      e.Tier.Severity(),
			RiskLevel:     e.Tier.RiskLevel(),
			EstimatedCost: e.EstimatedCost,
		}
		switch {
		case !m.present(lower, e.CoverageName):
			f.Status = StatusMissing
			f.Description = fmt.Sprintf("%s is not mentioned in the policy.", e.CoverageName)
			f.Recommendation = fmt.Sprintf("Add %s with a limit of at least %s.", e.CoverageName, e.RequiredLimit)
		case !limitFound:
			f.Status = StatusInsufficient
			f.Description = fmt.Sprintf("%s is mentioned but no limit or amount is stated.", e.CoverageName)
			f.Recommendation = fmt.Sprintf("Confirm the %s limit meets the benchmark of %s.", e.CoverageName, e.RequiredLimit)
		default:
			f.Status = StatusAdequate
			f.Description = fmt.Sprintf("%s is included and a limit is stated.", e.CoverageName)
			f.Recommendation = fmt.Sprintf("Check the %s limit against %s at renewal.", e.CoverageName, e.RequiredLimit)
		}
		findings = append(findings, f)
	}
	return findings
}

func (m *Matcher) evaluateGeneric(lower string) []Finding {
	terms := m.catalog.generic
	findings := make([]Finding, 0, len(terms))
	for _, term := range terms {
		name := titleCase(term)
		f := Finding{
			Category:      GenericGroup,
			CoverageName:  name,
			Severity:      SeverityModerate,
			RiskLevel:     RiskMedium,
			EstimatedCost: "Varies",
		}
		if m.present(lower, term) {
			f.Status = StatusAdequate
			f.Description = fmt.Sprintf("%s is referenced in the policy.", name)
			f.Recommendation = "Review limits with your insurer."
		} else {
			f.Status = StatusMissing
			f.Description = fmt.Sprintf("No mention of %s found in the policy.", term)
			f.Recommendation = fmt.Sprintf("Ask your insurer whether %s is included.", term)
		}
		findings = append(findings, f)
	}
	return findings
}

func aggregate(r *Report) {
	total := len(r.Findings)
	adequate, critical := 0, 0
	groups := make(map[string]*GroupScore)
	order := make([]string, 0, len(tierOrder))

	for _, f := range r.Findings {
		g, ok := groups[f.Category]
		if !ok {
			g = &GroupScore{Group: f.Category}
			groups[f.Category] = g
			order = append(order, f.Category)
		}
		g.Total++
		if f.IsGap() {
			if f.Severity == SeverityCritical {
				critical++
			}
			continue
		}
		adequate++
		g.Covered++
	}

	r.OverallScore = percent(adequate, total)
	r.TotalGapCount = total - adequate
	r.CriticalGapCount = critical
	r.Completeness = Completeness{Covered: adequate, Gaps: total - adequate, Percentage: r.OverallScore}

	r.Breakdown = make([]GroupScore, 0, len(order))
	for _, tier := range tierOrder {
		if g, ok := groups[tier.Group()]; ok {
			g.Percentage = percent(g.Covered, g.Total)
			r.Breakdown = append(r.Breakdown, *g)
			delete(groups, tier.Group())
		}
	}
	for _, name := range order {
		if g, ok := groups[name]; ok {
			g.Percentage = percent(g.Covered, g.Total)
			r.Breakdown = append(r.Breakdown, *g)
		}
	}
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

//Personal.AI order the ending
