// Package learning: suggestion generation.
// Candidates come from four independent sources - derived rules, the exact
// pattern table, the naming convention, and the kapisanan majority vote - and the
// single highest-confidence candidate wins. A correction rule can then pre-empt
// the winner when operators have routinely corrected that exact suggestion.
package learning

import (
	"fmt"
	"sort"

	"angkan/internal/logging"
)

// Suggestion sources, in ranking tie-break order.
const (
	SourceLearnedRule      = "learned_rule"
	SourceExactPattern     = "exact_pattern"
	SourceNamingConvention = "naming_convention"
	SourceKapisananPattern = "kapisanan_pattern"
	SourceCorrection       = "correction_learning"
)

// Suggestion is one scored relationship suggestion.
type Suggestion struct {
	Relasyon   string  `json:"relasyon"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Source     string  `json:"source"`
}

// SuggestRequest carries the candidate member's name fragments plus optional
// kapisanan and raw match-type hints.
type SuggestRequest struct {
	PanguloLastName  string
	AsawaLastName    string
	MemberLastName   string
	MemberMiddleName string
	Kapisanan        string
	MatchType        string
}

// suggestFromDocument runs the full suggestion algorithm against a document
// snapshot. A nil result is a valid "no suggestion", never an error.
func suggestFromDocument(doc *LearningDocument, req SuggestRequest) *Suggestion {
	key := GeneratePatternKey(req.PanguloLastName, req.AsawaLastName, req.MemberLastName, req.MemberMiddleName)
	logging.SuggestDebug("Generating suggestion: key=%s kapisanan=%q match_type=%q", key, req.Kapisanan, req.MatchType)

	var candidates []Suggestion

	// Source 1: derived rules. match_type rules never name a relationship; a
	// matching one is kept aside and disclosed on the winner's reason line.
	var matchTypeNote string
	for _, rule := range doc.DerivedRules {
		switch r := rule.(type) {
		case NamingPatternRule:
			if r.Confidence == TierHigh && r.Pattern == key {
				candidates = append(candidates, Suggestion{
					Relasyon:   r.Relasyon,
					Confidence: r.Accuracy / 100,
					Reason:     fmt.Sprintf("Learned rule: pattern %s resolves to %s (%.1f%% accurate over %d households)", r.Pattern, r.Relasyon, r.Accuracy, r.Occurrences),
					Source:     SourceLearnedRule,
				})
			}
		case KapisananRelationRule:
			if req.Kapisanan != "" && r.Kapisanan == req.Kapisanan {
				candidates = append(candidates, Suggestion{
					Relasyon:   r.Relasyon,
					Confidence: r.Correlation / 100,
					Reason:     fmt.Sprintf("Learned rule: %.0f%% of %s members are %s", r.Correlation, r.Kapisanan, r.Relasyon),
					Source:     SourceLearnedRule,
				})
			}
		case MatchTypeRule:
			if req.MatchType != "" && r.MatchType == req.MatchType {
				matchTypeNote = fmt.Sprintf("; %s matches have been %.1f%% accurate", r.MatchType, r.Accuracy)
			}
		}
	}

	// Source 2: exact pattern-table lookup.
	if pattern, ok := doc.NamingPatterns[key]; ok && pattern.TotalCount >= 1 {
		if relasyon, topCount := pattern.TopRelationship(); relasyon != "" {
			confidence := 0.5 + float64(topCount)/10 + pattern.Accuracy/100*0.3
			if confidence > 0.95 {
				confidence = 0.95
			}
			candidates = append(candidates, Suggestion{
				Relasyon:   relasyon,
				Confidence: confidence,
				Reason:     fmt.Sprintf("Pattern %s seen %d times, %s in %d of them", key, pattern.TotalCount, relasyon, topCount),
				Source:     SourceExactPattern,
			})
		}
	}

	// Source 3: naming convention.
	if conv := NamingConventionSuggestion(req.PanguloLastName, req.AsawaLastName, req.MemberLastName, req.MemberMiddleName); conv != nil {
		candidates = append(candidates, *conv)
	}

	// Source 4: kapisanan majority vote.
	if vote := kapisananVote(doc, req.Kapisanan); vote != nil {
		candidates = append(candidates, *vote)
	}

	if len(candidates) == 0 {
		logging.SuggestDebug("No candidates for key=%s", key)
		return nil
	}

	// Strictly-highest confidence wins; generation order breaks ties.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	best = applyCorrectionOverride(doc, best)
	if matchTypeNote != "" {
		best.Reason += matchTypeNote
	}

	logging.Suggest("Suggestion: %s (%.2f) via %s", best.Relasyon, best.Confidence, best.Source)
	return &best
}

// kapisananVote suggests the dominant relationship of a kapisanan, requiring at
// least 3 recorded occurrences and a majority share.
func kapisananVote(doc *LearningDocument, kapisanan string) *Suggestion {
	if kapisanan == "" {
		return nil
	}
	group := doc.KapisananPatterns[kapisanan]
	if group == nil {
		return nil
	}

	total := 0
	counts := make(map[string]int, len(group))
	for relasyon, stat := range group {
		if stat == nil {
			continue
		}
		counts[relasyon] = stat.Count
		total += stat.Count
	}
	if total < 3 {
		return nil
	}

	relasyon, topCount := topOfCounts(counts)
	if relasyon == "" {
		return nil
	}
	ratio := float64(topCount) / float64(total)
	if ratio < 0.5 {
		return nil
	}

	confidence := 0.4 + ratio*0.3
	if confidence > 0.7 {
		confidence = 0.7
	}
	return &Suggestion{
		Relasyon:   relasyon,
		Confidence: confidence,
		Reason:     fmt.Sprintf("%d of %d %s members are %s", topCount, total, kapisanan, relasyon),
		Source:     SourceKapisananPattern,
	}
}

// applyCorrectionOverride replaces a suggestion operators have corrected at
// least 3 times, capping confidence and disclosing the evidence.
func applyCorrectionOverride(doc *LearningDocument, chosen Suggestion) Suggestion {
	for _, rule := range doc.DerivedRules {
		r, ok := rule.(CorrectionRule)
		if !ok || r.OriginalSuggestion != chosen.Relasyon || r.CorrectionCount < 3 {
			continue
		}
		logging.Suggest("Correction override: %s -> %s (%d corrections)", r.OriginalSuggestion, r.BetterSuggestion, r.CorrectionCount)

		confidence := chosen.Confidence
		if confidence > 0.9 {
			confidence = 0.9
		}
		return Suggestion{
			Relasyon:   r.BetterSuggestion,
			Confidence: confidence,
			Reason:     fmt.Sprintf("Originally %s, but operators corrected that to %s %d times", r.OriginalSuggestion, r.BetterSuggestion, r.CorrectionCount),
			Source:     SourceCorrection,
		}
	}
	return chosen
}

// topOfCounts returns the label with the highest count; ties break by label
// ascending so results never depend on map iteration order.
func topOfCounts(counts map[string]int) (string, int) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best, bestCount := "", 0
	for _, label := range labels {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best, bestCount
}
