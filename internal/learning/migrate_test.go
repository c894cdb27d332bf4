package learning

import (
	"encoding/json"
	"testing"
)

const v1Fixture = `{
  "version": "1.0",
  "statistics": {"total_families": 12, "total_members": 40, "total_patterns": 2},
  "naming_patterns": {
    "LM_": {
      "pangulo_lastname": "santos",
      "asawa_lastname": "cruz",
      "member_lastname": "santos",
      "member_middlename": "dela cruz",
      "relationships": {"Anak": 7},
      "count": 7
    }
  },
  "kapisanan_patterns": {
    "legion-asawa": {"kapisanan": "Legion of Mary", "relasyon": "Asawa", "count": 5}
  },
  "confirmed_relationships": {
    "deadbeef": {"pangulo": "Juan Santos", "member": "Ana Santos", "relasyon": "Anak", "confirmed_count": 2}
  }
}`

func TestDecodeDocumentMigratesV1(t *testing.T) {
	doc, migrated, err := decodeDocument([]byte(v1Fixture))
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	if !migrated {
		t.Fatal("expected a migration")
	}
	if doc.Version != DocumentVersion {
		t.Errorf("Version = %q, want %q", doc.Version, DocumentVersion)
	}

	if doc.Statistics.TotalFamilies != 12 || doc.Statistics.TotalMembers != 40 {
		t.Errorf("statistics not carried: %+v", doc.Statistics)
	}

	p := doc.NamingPatterns["LM_"]
	if p == nil {
		t.Fatal("naming pattern LM_ not migrated")
	}
	// The flat v1 count becomes both success and total; legacy evidence is
	// treated as fully successful.
	if p.SuccessCount != 7 || p.TotalCount != 7 || p.Accuracy != 100 {
		t.Errorf("pattern = %d/%d @ %v, want 7/7 @ 100", p.SuccessCount, p.TotalCount, p.Accuracy)
	}
	if p.Relationships["Anak"] != 7 {
		t.Errorf("Relationships = %v", p.Relationships)
	}

	stat := doc.KapisananPatterns["Legion of Mary"]["Asawa"]
	if stat == nil || stat.Count != 5 || stat.Success != 5 {
		t.Errorf("kapisanan stat = %+v, want 5/5", stat)
	}

	cr := doc.ConfirmedRelationships["deadbeef"]
	if cr == nil || cr.Relasyon != "Anak" || cr.ConfirmedCount != 2 {
		t.Errorf("confirmed relationship = %+v", cr)
	}

	// V1 had no behavior log or derived sections; they start empty, not nil.
	if doc.BehaviorLog == nil || doc.CorrectionPatterns == nil || doc.DerivedRules == nil {
		t.Error("empty sections must be initialized after migration")
	}
}

func TestDecodeDocumentV2Passthrough(t *testing.T) {
	doc := NewDocument()
	doc.Statistics.TotalFamilies = 3
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, migrated, err := decodeDocument(data)
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	if migrated {
		t.Error("a v2 document must not be re-migrated")
	}
	if got.Statistics.TotalFamilies != 3 {
		t.Errorf("TotalFamilies = %d, want 3", got.Statistics.TotalFamilies)
	}
	if got.NamingPatterns == nil || got.MatchTypeStats == nil {
		t.Error("section maps must be non-nil after decode")
	}
}

func TestDecodeDocumentGarbage(t *testing.T) {
	if _, _, err := decodeDocument([]byte("not json")); err == nil {
		t.Fatal("expected an error for unparseable input")
	}
}

func TestMigrationPreservedThroughSuggestion(t *testing.T) {
	doc, _, err := decodeDocument([]byte(v1Fixture))
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}

	// Migrated evidence drives suggestions exactly like native v2 evidence.
	s := suggestFromDocument(doc, SuggestRequest{
		PanguloLastName:  "Santos",
		AsawaLastName:    "Cruz",
		MemberLastName:   "Santos",
		MemberMiddleName: "Dela Cruz",
	})
	if s == nil {
		t.Fatal("expected a suggestion from migrated patterns")
	}
	if s.Relasyon != RelasyonAnak {
		t.Errorf("Relasyon = %q, want %q", s.Relasyon, RelasyonAnak)
	}
}

func TestRuleListRoundTrip(t *testing.T) {
	rules := RuleList{
		NamingPatternRule{Type: RuleNamingPattern, Pattern: "LM_", Relasyon: "Anak", Accuracy: 100, Occurrences: 3, Confidence: TierHigh},
		MatchTypeRule{Type: RuleMatchType, MatchType: "lastname", Accuracy: 95, SampleSize: 10, Confidence: TierHigh},
		KapisananRelationRule{Type: RuleKapisananRelation, Kapisanan: "Choir", Relasyon: "Anak", Correlation: 90, Occurrences: 9, Confidence: TierHigh},
		CorrectionRule{Type: RuleCorrection, OriginalSuggestion: "Kapatid", BetterSuggestion: "Anak", CorrectionCount: 3, Confidence: TierMedium},
	}

	data, err := json.Marshal(rules)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got RuleList
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != len(rules) {
		t.Fatalf("got %d rules, want %d", len(got), len(rules))
	}
	for i := range rules {
		if got[i].RuleType() != rules[i].RuleType() {
			t.Errorf("rule %d type = %q, want %q", i, got[i].RuleType(), rules[i].RuleType())
		}
	}
}

func TestRuleListRejectsUnknownType(t *testing.T) {
	var got RuleList
	if err := json.Unmarshal([]byte(`[{"type": "astrology"}]`), &got); err == nil {
		t.Fatal("expected an error for an unknown rule type")
	}
}
