package client

import "time"

// Finding is the evaluation of one benchmark coverage.
type Finding struct {
	Category       string `json:"category"`
	CoverageName   string `json:"coverage_name"`
	Status         string `json:"status"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	EstimatedCost  string `json:"estimated_cost"`
	RiskLevel      string `json:"risk_level"`
}

// IsGap reports whether the coverage is missing or insufficient.
func (f Finding) IsGap() bool { return f.Status != "adequate" }

type Completeness struct {
	Covered    int `json:"covered"`
	Gaps       int `json:"gaps"`
	Percentage int `json:"percentage"`
}

type GroupScore struct {
	Group      string `json:"group"`
	Total      int    `json:"total"`
	Covered    int    `json:"covered"`
	Percentage int    `json:"percentage"`
}

// Report is the matcher output for one policy.
type Report struct {
	PolicyCategory   string       `json:"policy_category"`
	Region           string       `json:"region"`
	AnalysisPath     string       `json:"analysis_path"`
	OverallScore     int          `json:"overall_score"`
	TotalGapCount    int          `json:"total_gap_count"`
	CriticalGapCount int          `json:"critical_gap_count"`
	LimitIndicator   bool         `json:"limit_indicator"`
	Findings         []Finding    `json:"findings"`
	Completeness     Completeness `json:"completeness"`
	Breakdown        []GroupScore `json:"breakdown"`
}

type ActionItem struct {
	Priority       int    `json:"priority"`
	CoverageName   string `json:"coverage_name"`
	Status         string `json:"status"`
	Severity       string `json:"severity"`
	RiskLevel      string `json:"risk_level"`
	EstimatedCost  string `json:"estimated_cost"`
	Recommendation string `json:"recommendation"`
}

type ActionPlan struct {
	RiskScore int          `json:"risk_score"`
	RiskLevel string       `json:"risk_level"`
	Items     []ActionItem `json:"items"`
}

// Analysis is a stored or freshly computed gap analysis.
type Analysis struct {
	ID          string      `json:"id"`
	PolicyHash  string      `json:"policy_hash"`
	GeneratedAt time.Time   `json:"generated_at"`
	Truncated   bool        `json:"truncated"`
	Report      *Report     `json:"report"`
	ActionPlan  *ActionPlan `json:"action_plan"`
}

type CoverageDelta struct {
	CoverageName string `json:"coverage_name"`
	Severity     string `json:"severity"`
	Baseline     string `json:"baseline,omitempty"`
	Candidate    string `json:"candidate,omitempty"`
	Change       string `json:"change"`
}

// Comparison is the coverage-by-coverage difference of two policy texts.
type Comparison struct {
	Baseline   *Report         `json:"baseline"`
	Candidate  *Report         `json:"candidate"`
	ScoreDelta int             `json:"score_delta"`
	Deltas     []CoverageDelta `json:"deltas"`
	Improved   int             `json:"improved"`
	Regressed  int             `json:"regressed"`
}

type BenchmarkEntry struct {
	CoverageName  string `json:"coverage_name"`
	RequiredLimit string `json:"required_limit"`
	EstimatedCost string `json:"estimated_cost"`
	Tier          string `json:"tier"`
}

type BenchmarkTable struct {
	Region   string           `json:"region"`
	Category string           `json:"category"`
	Entries  []BenchmarkEntry `json:"entries"`
}

// ComponentCheck is the readiness of one backend.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Readiness is the /readyz body.
type Readiness struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// Liveness is the /healthz body.
type Liveness struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

//Personal.AI order the ending
