// Package learning implements the family-relationship suggestion learning engine
// for angkan. It observes how operators accept, reject, or correct suggested
// relationships while composing a household record, accumulates that behavior in a
// single versioned JSON document, and uses it to improve future suggestions.
//
// The learning loop:
// Suggest -> Record Shown -> Operator Finalizes -> Learn -> Derive Rules
package learning

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DocumentVersion is the current schema version of the learning document.
const DocumentVersion = "2.0"

// BehaviorLogLimit caps the behavior log; oldest entries are dropped first.
const BehaviorLogLimit = 1000

// Relationship labels used by the naming-convention heuristic and tests.
// The engine itself is label-agnostic: any label that appears in finalized
// households is learned as-is.
const (
	RelasyonAnak       = "Anak"
	RelasyonAsawa      = "Asawa"
	RelasyonKapatid    = "Kapatid"
	RelasyonApo        = "Apo"
	RelasyonMagulang   = "Magulang"
	RelasyonPamangkin  = "Pamangkin"
	RelasyonIndibidwal = "Indibidwal"
)

// LearningDocument is the single persisted state of the engine. Every section is
// an explicit typed struct; there is no schemaless spillover.
type LearningDocument struct {
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Statistics             Statistics                          `json:"statistics"`
	MatchTypeStats         map[string]*MatchTypeStat           `json:"match_type_stats"`
	RelationshipAccuracy   map[string]*RelationshipAccuracy    `json:"relationship_accuracy"`
	NamingPatterns         map[string]*NamingPattern           `json:"naming_patterns"`
	KapisananPatterns      map[string]map[string]*KapisananStat `json:"kapisanan_patterns"`
	ConfirmedRelationships map[string]*ConfirmedRelationship   `json:"confirmed_relationships"`
	BehaviorLog            []BehaviorEntry                     `json:"behavior_log"`
	CorrectionPatterns     map[string]int                      `json:"correction_patterns"`
	DerivedRules           RuleList                            `json:"derived_rules"`
}

// Statistics holds the global counters of the document.
type Statistics struct {
	TotalFamilies            int     `json:"total_families"`
	TotalMembers             int     `json:"total_members"`
	TotalSuggestionsShown    int     `json:"total_suggestions_shown"`
	TotalSuggestionsAccepted int     `json:"total_suggestions_accepted"`
	TotalSuggestionsRejected int     `json:"total_suggestions_rejected"`
	TotalSuggestionsModified int     `json:"total_suggestions_modified"`
	OverallAccuracy          float64 `json:"overall_accuracy"`
	TotalPatterns            int     `json:"total_patterns"`
}

// MatchTypeStat tracks outcomes per suggestion-source label ("lastname",
// "spouse", ...). Accuracy counts a modified suggestion as half a success.
type MatchTypeStat struct {
	Shown    int     `json:"shown"`
	Accepted int     `json:"accepted"`
	Rejected int     `json:"rejected"`
	Modified int     `json:"modified"`
	Accuracy float64 `json:"accuracy"`
}

// Recompute refreshes the accuracy field from the outcome counters.
func (s *MatchTypeStat) Recompute() {
	total := s.Accepted + s.Rejected + s.Modified
	if total == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = round1(float64(s.Accepted*100+s.Modified*50) / float64(total))
}

// RelationshipAccuracy tracks per suggested label how often the suggestion held
// up, and which labels the operator corrected it to.
type RelationshipAccuracy struct {
	Correct     int            `json:"correct"`
	Incorrect   int            `json:"incorrect"`
	Corrections map[string]int `json:"corrections"`
}

// NamingPattern accumulates evidence under one pattern key (see GeneratePatternKey).
// The lastname/middlename fields record the names of the first occurrence, for
// operator-facing display only; matching always goes through the key.
type NamingPattern struct {
	PanguloLastname  string         `json:"pangulo_lastname"`
	AsawaLastname    string         `json:"asawa_lastname"`
	MemberLastname   string         `json:"member_lastname"`
	MemberMiddlename string         `json:"member_middlename"`
	Relationships    map[string]int `json:"relationships"`
	SuccessCount     int            `json:"success_count"`
	TotalCount       int            `json:"total_count"`
	Accuracy         float64        `json:"accuracy"`
}

// Recompute refreshes the pattern accuracy from its counters.
func (p *NamingPattern) Recompute() {
	total := p.TotalCount
	if total < 1 {
		total = 1
	}
	p.Accuracy = round1(float64(p.SuccessCount) / float64(total) * 100)
}

// TopRelationship returns the relationship with the highest recorded count.
// Ties break by label ascending so the result is stable across runs.
func (p *NamingPattern) TopRelationship() (string, int) {
	return topOfCounts(p.Relationships)
}

// KapisananStat tracks one (kapisanan, relasyon) pairing.
type KapisananStat struct {
	Count   int `json:"count"`
	Success int `json:"success"`
}

// ConfirmedRelationship is a fact cache entry for a finalized pangulo/member pair.
type ConfirmedRelationship struct {
	Pangulo        string `json:"pangulo"`
	Member         string `json:"member"`
	Relasyon       string `json:"relasyon"`
	Kapisanan      string `json:"kapisanan"`
	ConfirmedCount int    `json:"confirmed_count"`
	LastConfirmed  string `json:"last_confirmed"`
}

// BehaviorEntry is one record of a batch of suggestions shown to the operator.
type BehaviorEntry struct {
	SessionID        string            `json:"session_id"`
	PanguloID        string            `json:"pangulo_id"`
	AsawaID          string            `json:"asawa_id,omitempty"`
	SuggestionsShown []ShownSuggestion `json:"suggestions_shown"`
	Timestamp        string            `json:"timestamp"`
	Status           string            `json:"status"`
}

// ShownSuggestion identifies one suggestion presented to the operator.
type ShownSuggestion struct {
	ID        string `json:"id" yaml:"id"`
	MatchType string `json:"match_type" yaml:"match_type"`
	Relasyon  string `json:"relasyon" yaml:"relasyon"`
}

// nowTimestamp is the timestamp format used everywhere in the document.
func nowTimestamp() string {
	return time.Now().Format(time.RFC3339)
}

// NewDocument returns an empty v2 document with all counters at zero.
func NewDocument() *LearningDocument {
	now := nowTimestamp()
	return &LearningDocument{
		Version:                DocumentVersion,
		CreatedAt:              now,
		UpdatedAt:              now,
		MatchTypeStats:         make(map[string]*MatchTypeStat),
		RelationshipAccuracy:   make(map[string]*RelationshipAccuracy),
		NamingPatterns:         make(map[string]*NamingPattern),
		KapisananPatterns:      make(map[string]map[string]*KapisananStat),
		ConfirmedRelationships: make(map[string]*ConfirmedRelationship),
		BehaviorLog:            []BehaviorEntry{},
		CorrectionPatterns:     make(map[string]int),
		DerivedRules:           RuleList{},
	}
}

// =============================================================================
// DERIVED RULES - TAGGED VARIANTS
// =============================================================================
// Each rule family is its own struct; RuleList handles the type-tagged JSON
// round trip so the document stays readable.

// RuleType discriminates the derived-rule families.
type RuleType string

const (
	RuleNamingPattern     RuleType = "naming_pattern"
	RuleMatchType         RuleType = "match_type"
	RuleKapisananRelation RuleType = "kapisanan_relation"
	RuleCorrection        RuleType = "correction_rule"
)

// Tier is the confidence tier of a derived rule.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
)

// DerivedRule is implemented by every rule-family struct.
type DerivedRule interface {
	RuleType() RuleType
	RuleTier() Tier
}

// NamingPatternRule generalizes a high-accuracy naming pattern.
type NamingPatternRule struct {
	Type        RuleType `json:"type"`
	Pattern     string   `json:"pattern"`
	Relasyon    string   `json:"relasyon"`
	Accuracy    float64  `json:"accuracy"`
	Occurrences int      `json:"occurrences"`
	Confidence  Tier     `json:"confidence"`
}

func (r NamingPatternRule) RuleType() RuleType { return RuleNamingPattern }
func (r NamingPatternRule) RuleTier() Tier     { return r.Confidence }

// MatchTypeRule marks a suggestion source as reliable. It never names a
// relationship itself; it only informs confidence of candidates from that source.
type MatchTypeRule struct {
	Type       RuleType `json:"type"`
	MatchType  string   `json:"match_type"`
	Accuracy   float64  `json:"accuracy"`
	SampleSize int      `json:"sample_size"`
	Confidence Tier     `json:"confidence"`
}

func (r MatchTypeRule) RuleType() RuleType { return RuleMatchType }
func (r MatchTypeRule) RuleTier() Tier     { return r.Confidence }

// KapisananRelationRule records a dominant relationship within a kapisanan.
type KapisananRelationRule struct {
	Type        RuleType `json:"type"`
	Kapisanan   string   `json:"kapisanan"`
	Relasyon    string   `json:"relasyon"`
	Correlation float64  `json:"correlation"`
	Occurrences int      `json:"occurrences"`
	Confidence  Tier     `json:"confidence"`
}

func (r KapisananRelationRule) RuleType() RuleType { return RuleKapisananRelation }
func (r KapisananRelationRule) RuleTier() Tier     { return r.Confidence }

// CorrectionRule pre-empts a suggestion operators routinely correct.
type CorrectionRule struct {
	Type               RuleType `json:"type"`
	OriginalSuggestion string   `json:"original_suggestion"`
	BetterSuggestion   string   `json:"better_suggestion"`
	CorrectionCount    int      `json:"correction_count"`
	Confidence         Tier     `json:"confidence"`
}

func (r CorrectionRule) RuleType() RuleType { return RuleCorrection }
func (r CorrectionRule) RuleTier() Tier     { return r.Confidence }

// RuleList is a JSON-round-trippable slice of derived rules.
type RuleList []DerivedRule

// UnmarshalJSON decodes each element into its concrete rule family based on the
// "type" tag. Unknown rule types are rejected so a corrupted document surfaces
// at load time instead of silently dropping evidence.
func (rl *RuleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rules := make(RuleList, 0, len(raw))
	for i, msg := range raw {
		var probe struct {
			Type RuleType `json:"type"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return fmt.Errorf("derived rule %d: %w", i, err)
		}

		var rule DerivedRule
		var err error
		switch probe.Type {
		case RuleNamingPattern:
			var r NamingPatternRule
			err = json.Unmarshal(msg, &r)
			rule = r
		case RuleMatchType:
			var r MatchTypeRule
			err = json.Unmarshal(msg, &r)
			rule = r
		case RuleKapisananRelation:
			var r KapisananRelationRule
			err = json.Unmarshal(msg, &r)
			rule = r
		case RuleCorrection:
			var r CorrectionRule
			err = json.Unmarshal(msg, &r)
			rule = r
		default:
			return fmt.Errorf("derived rule %d: unknown type %q", i, probe.Type)
		}
		if err != nil {
			return fmt.Errorf("derived rule %d (%s): %w", i, probe.Type, err)
		}
		rules = append(rules, rule)
	}

	*rl = rules
	return nil
}

// round1 rounds to one decimal place, matching how accuracies are stored.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
