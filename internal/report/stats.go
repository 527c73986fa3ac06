package report

import (
	"sort"

	"github.com/scanmill/scanmill/internal/findings"
)

// topRulesLimit bounds the dashboard rule table. Bounded response size is
// part of the contract, not an optimization.
const topRulesLimit = 5

// RuleCount pairs a rule-frequency bucket with its count.
type RuleCount struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// Stats is the dashboard aggregate over all persisted documents, recomputed
// in full on every request.
type Stats struct {
	TotalScans           int            `json:"total_scans"`
	TotalFindings        int            `json:"total_findings"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	TopRules             []RuleCount    `json:"top_rules"`
	UnreadableReports    int            `json:"unreadable_reports"`
}

// Aggregate folds every persisted document into dashboard statistics. Every
// readable document counts as one scan even with zero findings. Documents
// that cannot be parsed are counted as unreadable and skipped; a single
// malformed document never aborts aggregation over the rest.
func (s *Store) Aggregate() (Stats, error) {
	records, err := s.List()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		SeverityDistribution: map[string]int{"error": 0, "warning": 0, "info": 0},
		TopRules:             []RuleCount{},
	}
	ruleCounts := map[string]int{}
	var ruleOrder []string

	for _, record := range records {
		normalized, err := s.Detail(record.Filename)
		if err != nil {
			s.logger.Warn("skipping unreadable result document", "file", record.Filename, "error", err)
			stats.UnreadableReports++
			continue
		}

		stats.TotalScans++
		for _, finding := range normalized {
			stats.TotalFindings++
			stats.SeverityDistribution[findings.SeverityBucket(finding.Severity)]++

			leaf := findings.RuleLeaf(finding.Rule)
			if _, seen := ruleCounts[leaf]; !seen {
				ruleOrder = append(ruleOrder, leaf)
			}
			ruleCounts[leaf]++
		}
	}

	// Equal counts keep their first-appearance order under the stable sort.
	sort.SliceStable(ruleOrder, func(i, j int) bool {
		return ruleCounts[ruleOrder[i]] > ruleCounts[ruleOrder[j]]
	})
	for _, rule := range ruleOrder {
		if len(stats.TopRules) == topRulesLimit {
			break
		}
		stats.TopRules = append(stats.TopRules, RuleCount{Rule: rule, Count: ruleCounts[rule]})
	}

	return stats, nil
}
