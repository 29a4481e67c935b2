package coverage

import "strings"

// Change describes how one coverage moved between two reports.
type Change string

const (
	ChangeImproved  Change = "improved"
	ChangeRegressed Change = "regressed"
	ChangeUnchanged Change = "unchanged"
	// ChangeAdded and ChangeRemoved only occur when the reports were produced
	// from different tables.
	ChangeAdded   Change = "added"
	ChangeRemoved Change = "removed"
)

// CoverageDelta pairs the status of one coverage in two reports.
type CoverageDelta struct {
	CoverageName string   `json:"coverage_name"`
	Severity     Severity `json:"severity"`
	Baseline     Status   `json:"baseline,omitempty"`
	Candidate    Status   `json:"candidate,omitempty"`
	Change       Change   `json:"change"`
}

// Comparison is the coverage-by-coverage difference of two reports.
type Comparison struct {
	Baseline   *Report         `json:"baseline"`
	Candidate  *Report         `json:"candidate"`
	ScoreDelta int             `json:"score_delta"`
	Deltas     []CoverageDelta `json:"deltas"`
	Improved   int             `json:"improved"`
	Regressed  int             `json:"regressed"`
}

func statusRank(s Status) int {
	switch s {
	case StatusAdequate:
		return 2
	case StatusInsufficient:
		return 1
	default:
		return 0
	}
}

// Compare lines up two reports by coverage name.  Baseline order is kept,
// coverages only present in the candidate follow in candidate order.
func Compare(baseline, candidate *Report) *Comparison {
	c := &Comparison{
		Baseline:   baseline,
		Candidate:  candidate,
		ScoreDelta: candidate.OverallScore - baseline.OverallScore,
		Deltas:     make([]CoverageDelta, 0, len(baseline.Findings)),
	}

	seen := make(map[string]struct{}, len(baseline.Findings))
	for _, b := range baseline.Findings {
		key := strings.ToLower(b.CoverageName)
		seen[key] = struct{}{}
		d := CoverageDelta{CoverageName: b.CoverageName, Severity: b.Severity, Baseline: b.Status}

		cf, ok := candidate.Finding(b.CoverageName)
		if !ok {
			d.Change = ChangeRemoved
			c.Deltas = append(c.Deltas, d)
			continue
		}
		d.Candidate = cf.Status
		switch diff := statusRank(cf.Status) - statusRank(b.Status); {
		case diff > 0:
			d.Change = ChangeImproved
			c.Improved++
		case diff < 0:
			d.Change = ChangeRegressed
			c.Regressed++
		default:
			d.Change = ChangeUnchanged
		}
		c.Deltas = append(c.Deltas, d)
	}

	for _, f := range candidate.Findings {
		if _, ok := seen[strings.ToLower(f.CoverageName)]; ok {
			continue
		}
		c.Deltas = append(c.Deltas, CoverageDelta{
			CoverageName: f.CoverageName,
			Severity:     f.Severity,
			Candidate:    f.Status,
			Change:       ChangeAdded,
		})
	}
	return c
}

//Personal.AI order the ending
