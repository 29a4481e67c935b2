package coverage

import "strings"

// PolicyCategory is the kind of insurance policy under analysis.
type PolicyCategory string

const (
	CategoryCar      PolicyCategory = "car"
	CategoryHome     PolicyCategory = "home"
	CategoryBusiness PolicyCategory = "business"
	CategoryLife     PolicyCategory = "life"
	// CategoryGeneral means "unknown"; it has no benchmark table.
	CategoryGeneral PolicyCategory = "general"
)

// InferenceOrder is the fixed order used for keyword scoring.  Ties resolve
// to the earlier category.
var InferenceOrder = []PolicyCategory{CategoryCar, CategoryHome, CategoryBusiness, CategoryLife}

// ParseCategory maps free-form input to a benchmarked category.  ok is false
// for empty, "general" and unrecognised values, all of which trigger inference.
func ParseCategory(s string) (PolicyCategory, bool) {
	c := PolicyCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range InferenceOrder {
		if c == known {
			return c, true
		}
	}
	return CategoryGeneral, false
}

// Region is a benchmark jurisdiction.
type Region string

const (
	RegionUK     Region = "UK"
	RegionUS     Region = "US"
	RegionIndia  Region = "India"
	RegionEurope Region = "Europe"

	DefaultRegion = RegionUK
)

// Tier is the benchmark importance of a coverage.
type Tier string

const (
	TierCritical Tier = "critical"
	TierModerate Tier = "moderate"
	TierOptional Tier = "optional"
)

var tierOrder = []Tier{TierCritical, TierModerate, TierOptional}

func (t Tier) Valid() bool {
	return t == TierCritical || t == TierModerate || t == TierOptional
}

// Severity returns the finding severity for the tier.
func (t Tier) Severity() Severity {
	switch t {
	case TierCritical:
		return SeverityCritical
	case TierOptional:
		return SeverityLow
	default:
		return SeverityModerate
	}
}

// RiskLevel returns the display risk level for the tier.
func (t Tier) RiskLevel() RiskLevel {
	switch t {
	case TierCritical:
		return RiskHigh
	case TierOptional:
		return RiskLow
	default:
		return RiskMedium
	}
}

// Group is the label findings of this tier are reported under.
func (t Tier) Group() string {
	switch t {
	case TierCritical:
		return "Essential Coverage"
	case TierOptional:
		return "Optional Coverage"
	default:
		return "Recommended Coverage"
	}
}

// GenericGroup labels findings produced by the generic fallback.
const GenericGroup = "General Coverage"

type Status string

const (
	StatusMissing      Status = "missing"
	StatusInsufficient Status = "insufficient"
	StatusAdequate     Status = "adequate"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// Weight ranks severities for prioritisation (critical highest).
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityModerate:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// AnalysisPath tells which evaluation produced the findings.
type AnalysisPath string

const (
	PathBenchmark AnalysisPath = "benchmark"
	PathGeneric   AnalysisPath = "generic"
)

// BenchmarkEntry is one expected coverage for a (region, category) pair.
type BenchmarkEntry struct {
	CoverageName  string `json:"coverage_name" yaml:"coverage_name"`
	RequiredLimit string `json:"required_limit" yaml:"required_limit"`
	EstimatedCost string `json:"estimated_cost" yaml:"estimated_cost"`
	Tier          Tier   `json:"tier" yaml:"tier"`
}

// Finding is the evaluation of one benchmark entry against the policy text.
type Finding struct {
	Category       string    `json:"category"`
	CoverageName   string    `json:"coverage_name"`
	Status         Status    `json:"status"`
	Severity       Severity  `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	EstimatedCost  string    `json:"estimated_cost"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

// IsGap reports whether the finding needs attention.
func (f Finding) IsGap() bool { return f.Status != StatusAdequate }

type Completeness struct {
	Covered    int `json:"covered"`
	Gaps       int `json:"gaps"`
	Percentage int `json:"percentage"`
}

// GroupScore is the completeness of one finding group.
type GroupScore struct {
	Group      string `json:"group"`
	Total      int    `json:"total"`
	Covered    int    `json:"covered"`
	Percentage int    `json:"percentage"`
}

// Report is the matcher output.  It is fully determined by its inputs.
type Report struct {
	PolicyCategory   PolicyCategory `json:"policy_category"`
	Region           Region         `json:"region"`
	Path             AnalysisPath   `json:"analysis_path"`
	OverallScore     int            `json:"overall_score"`
	TotalGapCount    int            `json:"total_gap_count"`
	CriticalGapCount int            `json:"critical_gap_count"`
	// LimitIndicator is true when any currency amount, percentage or limit
	// phrase appears anywhere in the text.
	LimitIndicator bool         `json:"limit_indicator"`
	Findings       []Finding    `json:"findings"`
	Completeness   Completeness `json:"completeness"`
	Breakdown      []GroupScore `json:"breakdown"`
}

// Gaps returns the non-adequate findings in report order.
func (r *Report) Gaps() []Finding {
	out := make([]Finding, 0, r.TotalGapCount)
	for _, f := range r.Findings {
		if f.IsGap() {
			out = append(out, f)
		}
	}
	return out
}

// Finding returns the finding for coverage (case-insensitive).
func (r *Report) Finding(coverage string) (Finding, bool) {
	for _, f := range r.Findings {
		if strings.EqualFold(f.CoverageName, coverage) {
			return f, true
		}
	}
	return Finding{}, false
}

//Personal.AI order the ending
