// Package learning: outcome ingestion.
// Once the operator finalizes a household, the original suggestions and the final
// member list flow back through here: match-type and relationship accuracy get
// updated from the accept/modify/reject outcomes, and every finalized member
// reinforces the pattern tables regardless of whether a suggestion produced it.
package learning

import (
	"github.com/google/uuid"

	"angkan/internal/logging"
)

// Member is one finalized household member.
type Member struct {
	FullName  string `json:"full_name" yaml:"full_name"`
	Relasyon  string `json:"relasyon" yaml:"relasyon"`
	Kapisanan string `json:"kapisanan,omitempty" yaml:"kapisanan,omitempty"`
}

// FamilyOutcome is the finalized composition of one household, together with
// what was suggested and what the operator decided.
type FamilyOutcome struct {
	PanguloName string   `json:"pangulo_name" yaml:"pangulo_name"`
	AsawaName   string   `json:"asawa_name,omitempty" yaml:"asawa_name,omitempty"`
	Members     []Member `json:"members" yaml:"members"`

	// SuggestionsShown are the suggestions originally presented.
	SuggestionsShown []ShownSuggestion `json:"suggestions_shown" yaml:"suggestions_shown"`
	// SuggestionsAccepted holds the IDs the operator kept.
	SuggestionsAccepted []string `json:"suggestions_accepted" yaml:"suggestions_accepted"`
	// SuggestionsModified maps suggestion ID to the relationship the operator
	// replaced it with.
	SuggestionsModified map[string]string `json:"suggestions_modified" yaml:"suggestions_modified"`
}

// recordShown increments shown counters and appends a behavior-log entry,
// returning an opaque session identifier for later correlation.
func recordShown(doc *LearningDocument, suggestions []ShownSuggestion, panguloID, asawaID string) string {
	sessionID := uuid.NewString()
	logging.Learning("Recording %d shown suggestions (session=%s)", len(suggestions), sessionID)

	for _, s := range suggestions {
		matchTypeStat(doc, s.MatchType).Shown++
		doc.Statistics.TotalSuggestionsShown++
	}

	doc.BehaviorLog = append(doc.BehaviorLog, BehaviorEntry{
		SessionID:        sessionID,
		PanguloID:        panguloID,
		AsawaID:          asawaID,
		SuggestionsShown: suggestions,
		Timestamp:        nowTimestamp(),
		Status:           "shown",
	})
	if excess := len(doc.BehaviorLog) - BehaviorLogLimit; excess > 0 {
		doc.BehaviorLog = doc.BehaviorLog[excess:]
	}

	return sessionID
}

// learnFromFamilySave is the primary learning pass over one finalized household.
func learnFromFamilySave(doc *LearningDocument, outcome FamilyOutcome) {
	timer := logging.StartTimer(logging.CategoryLearning, "learnFromFamilySave")
	defer timer.Stop()

	pangulo := ParseFullName(outcome.PanguloName)
	asawa := ParseFullName(outcome.AsawaName)

	// Step 1: classify each shown suggestion's outcome.
	accepted := make(map[string]bool, len(outcome.SuggestionsAccepted))
	for _, id := range outcome.SuggestionsAccepted {
		accepted[id] = true
	}

	for _, s := range outcome.SuggestionsShown {
		stat := matchTypeStat(doc, s.MatchType)
		actual, wasModified := outcome.SuggestionsModified[s.ID]

		switch {
		case wasModified && actual != s.Relasyon:
			stat.Modified++
			doc.Statistics.TotalSuggestionsModified++
			doc.CorrectionPatterns[s.Relasyon+"|"+actual]++
			trackRelationshipAccuracy(doc, s.Relasyon, actual, false)
			logging.LearningDebug("Suggestion %s modified: %s -> %s", s.ID, s.Relasyon, actual)
		case accepted[s.ID]:
			stat.Accepted++
			doc.Statistics.TotalSuggestionsAccepted++
			trackRelationshipAccuracy(doc, s.Relasyon, s.Relasyon, true)
		default:
			stat.Rejected++
			doc.Statistics.TotalSuggestionsRejected++
			logging.LearningDebug("Suggestion %s rejected (%s)", s.ID, s.Relasyon)
		}
		stat.Recompute()
	}

	// Step 2: every finalized member reinforces the pattern tables. There is no
	// negative path here: a member present in the final household always counts
	// as a success for its pattern key.
	for _, member := range outcome.Members {
		if member.Relasyon == "" {
			continue
		}
		parts := ParseFullName(member.FullName)
		key := GeneratePatternKey(pangulo.Last, asawa.Last, parts.Last, parts.Middle)

		pattern := doc.NamingPatterns[key]
		if pattern == nil {
			pattern = &NamingPattern{
				PanguloLastname:  pangulo.Last,
				AsawaLastname:    asawa.Last,
				MemberLastname:   parts.Last,
				MemberMiddlename: parts.Middle,
				Relationships:    make(map[string]int),
			}
			doc.NamingPatterns[key] = pattern
			logging.Learning("New naming pattern: %s (%s)", key, member.Relasyon)
		}
		pattern.Relationships[member.Relasyon]++
		pattern.TotalCount++
		pattern.SuccessCount++
		pattern.Recompute()

		if member.Kapisanan != "" {
			group := doc.KapisananPatterns[member.Kapisanan]
			if group == nil {
				group = make(map[string]*KapisananStat)
				doc.KapisananPatterns[member.Kapisanan] = group
			}
			stat := group[member.Relasyon]
			if stat == nil {
				stat = &KapisananStat{}
				group[member.Relasyon] = stat
			}
			stat.Count++
			stat.Success++
		}

		upsertConfirmed(doc, outcome.PanguloName, member)
	}

	// Step 3: global counters and overall accuracy.
	doc.Statistics.TotalFamilies++
	doc.Statistics.TotalMembers += len(outcome.Members)
	doc.Statistics.TotalPatterns = len(doc.NamingPatterns)
	recomputeOverallAccuracy(doc)

	// Step 4: recompute the derived rules from scratch.
	DeriveRules(doc)

	logging.Learning("Learned from household %q: %d members, %d patterns total",
		outcome.PanguloName, len(outcome.Members), doc.Statistics.TotalPatterns)
}

// matchTypeStat returns the bucket for a suggestion source, creating it if absent.
func matchTypeStat(doc *LearningDocument, matchType string) *MatchTypeStat {
	if matchType == "" {
		matchType = "unknown"
	}
	stat := doc.MatchTypeStats[matchType]
	if stat == nil {
		stat = &MatchTypeStat{}
		doc.MatchTypeStats[matchType] = stat
	}
	return stat
}

// trackRelationshipAccuracy records whether a suggested label held up, and on a
// miss, which label the operator used instead.
func trackRelationshipAccuracy(doc *LearningDocument, suggested, actual string, correct bool) {
	bucket := doc.RelationshipAccuracy[suggested]
	if bucket == nil {
		bucket = &RelationshipAccuracy{Corrections: make(map[string]int)}
		doc.RelationshipAccuracy[suggested] = bucket
	}
	if bucket.Corrections == nil {
		bucket.Corrections = make(map[string]int)
	}

	if correct {
		bucket.Correct++
		return
	}
	bucket.Incorrect++
	bucket.Corrections[actual]++
}

// upsertConfirmed records a finalized pangulo/member pairing in the fact cache.
func upsertConfirmed(doc *LearningDocument, panguloName string, member Member) {
	key := confirmedKey(panguloName, member.FullName)
	fact := doc.ConfirmedRelationships[key]
	if fact == nil {
		fact = &ConfirmedRelationship{
			Pangulo: panguloName,
			Member:  member.FullName,
		}
		doc.ConfirmedRelationships[key] = fact
	}
	fact.Relasyon = member.Relasyon
	fact.Kapisanan = member.Kapisanan
	fact.ConfirmedCount++
	fact.LastConfirmed = nowTimestamp()
}

// recomputeOverallAccuracy applies the global accuracy formula: accepted counts
// full, modified counts half, rejected counts zero.
func recomputeOverallAccuracy(doc *LearningDocument) {
	s := &doc.Statistics
	total := s.TotalSuggestionsAccepted + s.TotalSuggestionsRejected + s.TotalSuggestionsModified
	if total == 0 {
		s.OverallAccuracy = 0
		return
	}
	s.OverallAccuracy = round1(float64(s.TotalSuggestionsAccepted*100+s.TotalSuggestionsModified*50) / float64(total))
}
