// Package learning: rule derivation.
// Derived rules are statistically-thresholded generalizations recomputed from
// scratch after every learning update. The thresholds are policy constants;
// changing one changes which suggestions short-circuit through rules, so they
// live here in one place.
package learning

import (
	"sort"

	"angkan/internal/logging"
)

// Rule derivation thresholds.
const (
	namingRuleMinAccuracy    = 90.0
	namingRuleMinCount       = 3
	matchTypeRuleMinAccuracy = 85.0
	matchTypeRuleMinSamples  = 10
	kapisananRuleMinShare    = 0.8
	kapisananRuleMinCount    = 5
	correctionRuleMinCount   = 3
)

// DeriveRules replaces doc.DerivedRules with a freshly computed rule list.
// Sections iterate in sorted key order so the derived list is deterministic.
func DeriveRules(doc *LearningDocument) {
	rules := RuleList{}

	for _, key := range sortedKeys(doc.NamingPatterns) {
		p := doc.NamingPatterns[key]
		if p == nil || p.Accuracy < namingRuleMinAccuracy || p.TotalCount < namingRuleMinCount {
			continue
		}
		relasyon, _ := p.TopRelationship()
		if relasyon == "" {
			continue
		}
		rules = append(rules, NamingPatternRule{
			Type:        RuleNamingPattern,
			Pattern:     key,
			Relasyon:    relasyon,
			Accuracy:    p.Accuracy,
			Occurrences: p.TotalCount,
			Confidence:  TierHigh,
		})
	}

	for _, matchType := range sortedKeys(doc.MatchTypeStats) {
		s := doc.MatchTypeStats[matchType]
		if s == nil {
			continue
		}
		samples := s.Accepted + s.Rejected + s.Modified
		if s.Accuracy < matchTypeRuleMinAccuracy || samples < matchTypeRuleMinSamples {
			continue
		}
		rules = append(rules, MatchTypeRule{
			Type:       RuleMatchType,
			MatchType:  matchType,
			Accuracy:   s.Accuracy,
			SampleSize: samples,
			Confidence: TierHigh,
		})
	}

	for _, kapisanan := range sortedKeys(doc.KapisananPatterns) {
		group := doc.KapisananPatterns[kapisanan]
		total := 0
		for _, stat := range group {
			if stat != nil {
				total += stat.Count
			}
		}
		if total == 0 {
			continue
		}
		for _, relasyon := range sortedKeys(group) {
			stat := group[relasyon]
			if stat == nil || stat.Count < kapisananRuleMinCount {
				continue
			}
			share := float64(stat.Count) / float64(total)
			if share < kapisananRuleMinShare {
				continue
			}
			rules = append(rules, KapisananRelationRule{
				Type:        RuleKapisananRelation,
				Kapisanan:   kapisanan,
				Relasyon:    relasyon,
				Correlation: round1(share * 100),
				Occurrences: stat.Count,
				Confidence:  TierHigh,
			})
		}
	}

	for _, pair := range sortedKeys(doc.CorrectionPatterns) {
		count := doc.CorrectionPatterns[pair]
		if count < correctionRuleMinCount {
			continue
		}
		suggested, actual, ok := splitCorrectionKey(pair)
		if !ok {
			continue
		}
		rules = append(rules, CorrectionRule{
			Type:               RuleCorrection,
			OriginalSuggestion: suggested,
			BetterSuggestion:   actual,
			CorrectionCount:    count,
			Confidence:         TierMedium,
		})
	}

	doc.DerivedRules = rules
	logging.RulesDebug("Derived %d rules", len(rules))
	logging.Audit().RulesDerived(len(rules))
}

// splitCorrectionKey splits a "suggested|actual" correction-pattern key.
func splitCorrectionKey(pair string) (string, string, bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '|' {
			return pair[:i], pair[i+1:], pair[:i] != "" && pair[i+1:] != ""
		}
	}
	return "", "", false
}

// sortedKeys returns the keys of a string-keyed map in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
