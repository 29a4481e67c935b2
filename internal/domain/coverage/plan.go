package coverage

import (
	"math"
	"sort"
)

// ActionItem is one gap to close, ranked by priority.
type ActionItem struct {
	Priority       int       `json:"priority"`
	CoverageName   string    `json:"coverage_name"`
	Status         Status    `json:"status"`
	Severity       Severity  `json:"severity"`
	RiskLevel      RiskLevel `json:"risk_level"`
	EstimatedCost  string    `json:"estimated_cost"`
	Recommendation string    `json:"recommendation"`
}

// ActionPlan orders the gaps of a report and scores the exposure they leave.
type ActionPlan struct {
	// RiskScore is the severity-weighted share of findings that are gaps,
	// 0 (nothing open) to 100 (everything open).
	RiskScore int          `json:"risk_score"`
	RiskLevel RiskLevel    `json:"risk_level"`
	Items     []ActionItem `json:"items"`
}

// BuildActionPlan ranks the report's gaps critical first, then moderate, then
// low.  Gaps of equal severity keep their benchmark order.
func BuildActionPlan(r *Report) *ActionPlan {
	if r == nil {
		return &ActionPlan{RiskLevel: RiskLow, Items: []ActionItem{}}
	}
	plan := &ActionPlan{Items: make([]ActionItem, 0, r.TotalGapCount)}

	var open, total int
	for _, f := range r.Findings {
		w := f.Severity.Weight()
		total += w
		if !f.IsGap() {
			continue
		}
		open += w
		plan.Items = append(plan.Items, ActionItem{
			CoverageName:   f.CoverageName,
			Status:         f.Status,
			Severity:       f.Severity,
			RiskLevel:      f.RiskLevel,
			EstimatedCost:  f.EstimatedCost,
			Recommendation: f.Recommendation,
		})
	}

	sort.SliceStable(plan.Items, func(i, j int) bool {
		return plan.Items[i].Severity.Weight() > plan.Items[j].Severity.Weight()
	})
	for i := range plan.Items {
		plan.Items[i].Priority = i + 1
	}

	if total > 0 {
		plan.RiskScore = int(math.Round(float64(open) / float64(total) * 100))
	}
	plan.RiskLevel = riskLevelForScore(plan.RiskScore)
	return plan
}

func riskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

//Personal.AI order the ending
