package learning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.NotEmpty(t, doc.CreatedAt)
	assert.NotNil(t, doc.NamingPatterns)
	assert.NotNil(t, doc.MatchTypeStats)
	assert.NotNil(t, doc.KapisananPatterns)
	assert.NotNil(t, doc.ConfirmedRelationships)
	assert.NotNil(t, doc.CorrectionPatterns)
	assert.Empty(t, doc.BehaviorLog)
	assert.Empty(t, doc.DerivedRules)
}

func TestNamingPatternRecompute(t *testing.T) {
	tests := []struct {
		name    string
		success int
		total   int
		want    float64
	}{
		{"perfect", 3, 3, 100},
		{"two thirds", 2, 3, 66.7},
		{"zero total", 0, 0, 0},
		{"one of seven", 1, 7, 14.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &NamingPattern{SuccessCount: tt.success, TotalCount: tt.total}
			p.Recompute()
			assert.Equal(t, tt.want, p.Accuracy)
		})
	}
}

func TestMatchTypeStatRecompute(t *testing.T) {
	s := &MatchTypeStat{Accepted: 7, Modified: 2, Rejected: 1}
	s.Recompute()
	// (700 + 100) / 10 = 80.0
	assert.Equal(t, 80.0, s.Accuracy)

	empty := &MatchTypeStat{}
	empty.Recompute()
	assert.Equal(t, 0.0, empty.Accuracy)
}

func TestTopRelationshipStable(t *testing.T) {
	p := &NamingPattern{Relationships: map[string]int{
		RelasyonKapatid: 4,
		RelasyonAnak:    4,
	}}
	relasyon, count := p.TopRelationship()
	assert.Equal(t, RelasyonAnak, relasyon, "ties break by label")
	assert.Equal(t, 4, count)
}

func TestDocumentJSONShape(t *testing.T) {
	doc := NewDocument()
	doc.NamingPatterns["LM_"] = &NamingPattern{
		Relationships: map[string]int{RelasyonAnak: 3},
		TotalCount:    3, SuccessCount: 3, Accuracy: 100,
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	// The on-disk shape uses snake_case section names.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, section := range []string{
		"version", "statistics", "match_type_stats", "relationship_accuracy",
		"naming_patterns", "kapisanan_patterns", "confirmed_relationships",
		"behavior_log", "correction_patterns", "derived_rules",
	} {
		assert.Contains(t, raw, section)
	}
}
