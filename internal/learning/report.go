// Package learning: operator- and AI-facing summaries of the accumulated state.
package learning

import "sort"

// MatchTypeSummary summarizes one suggestion source for the AI statistics feed.
type MatchTypeSummary struct {
	MatchType string  `json:"match_type"`
	Shown     int     `json:"shown"`
	Accuracy  float64 `json:"accuracy"`
}

// AIStatistics is the trimmed summary intended for inclusion in an external
// AI-assisted suggestion prompt. The prompt itself is not this engine's concern.
type AIStatistics struct {
	TopMatchTypes    []MatchTypeSummary `json:"top_match_types"`
	HighConfidence   int                `json:"high_confidence_rules"`
	MediumConfidence int                `json:"medium_confidence_rules"`
	Kapisanans       []string           `json:"kapisanans"`
}

// PatternSummary is one naming-pattern row of the accuracy report.
type PatternSummary struct {
	Pattern    string  `json:"pattern"`
	Relasyon   string  `json:"relasyon"`
	TotalCount int     `json:"total_count"`
	Accuracy   float64 `json:"accuracy"`
}

// AccuracyReport is the operator-facing view of how the engine is doing.
type AccuracyReport struct {
	Statistics   Statistics                `json:"statistics"`
	MatchTypes   map[string]*MatchTypeStat `json:"match_types"`
	TopPatterns  []PatternSummary          `json:"top_patterns"`
	DerivedRules RuleList                  `json:"derived_rules"`
}

// statisticsForAI builds the AI prompt summary: the top 5 match types by shown
// volume with at least 5 occurrences, rule counts per tier, and the known
// kapisanan labels.
func statisticsForAI(doc *LearningDocument) AIStatistics {
	out := AIStatistics{Kapisanans: sortedKeys(doc.KapisananPatterns)}

	for _, matchType := range sortedKeys(doc.MatchTypeStats) {
		s := doc.MatchTypeStats[matchType]
		if s == nil || s.Shown < 5 {
			continue
		}
		out.TopMatchTypes = append(out.TopMatchTypes, MatchTypeSummary{
			MatchType: matchType,
			Shown:     s.Shown,
			Accuracy:  s.Accuracy,
		})
	}
	sort.SliceStable(out.TopMatchTypes, func(i, j int) bool {
		return out.TopMatchTypes[i].Shown > out.TopMatchTypes[j].Shown
	})
	if len(out.TopMatchTypes) > 5 {
		out.TopMatchTypes = out.TopMatchTypes[:5]
	}

	for _, rule := range doc.DerivedRules {
		switch rule.RuleTier() {
		case TierHigh:
			out.HighConfidence++
		case TierMedium:
			out.MediumConfidence++
		}
	}

	return out
}

// accuracyReport builds the operator report: full statistics, every match-type
// bucket, the top 10 naming patterns by evidence volume, and all derived rules.
func accuracyReport(doc *LearningDocument) AccuracyReport {
	report := AccuracyReport{
		Statistics:   doc.Statistics,
		MatchTypes:   doc.MatchTypeStats,
		DerivedRules: doc.DerivedRules,
	}

	for _, key := range sortedKeys(doc.NamingPatterns) {
		p := doc.NamingPatterns[key]
		if p == nil {
			continue
		}
		relasyon, _ := p.TopRelationship()
		report.TopPatterns = append(report.TopPatterns, PatternSummary{
			Pattern:    key,
			Relasyon:   relasyon,
			TotalCount: p.TotalCount,
			Accuracy:   p.Accuracy,
		})
	}
	sort.SliceStable(report.TopPatterns, func(i, j int) bool {
		return report.TopPatterns[i].TotalCount > report.TopPatterns[j].TotalCount
	})
	if len(report.TopPatterns) > 10 {
		report.TopPatterns = report.TopPatterns[:10]
	}

	return report
}
