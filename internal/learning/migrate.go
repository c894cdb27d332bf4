// Package learning: schema migration.
// Version 1 documents predate the success/failure distinction: they carried one
// flat count per naming pattern and one entry per (kapisanan, relasyon) pairing.
// Migration folds them into the v2 shapes, treating legacy evidence as fully
// successful, since v1 had nothing to say otherwise.
package learning

import "encoding/json"

// legacyDocument is the v1 on-disk shape, read-only for migration.
type legacyDocument struct {
	Version    string `json:"version"`
	Statistics struct {
		TotalFamilies int `json:"total_families"`
		TotalMembers  int `json:"total_members"`
		TotalPatterns int `json:"total_patterns"`
	} `json:"statistics"`
	NamingPatterns         map[string]*legacyNamingPattern    `json:"naming_patterns"`
	KapisananPatterns      map[string]*legacyKapisananPattern `json:"kapisanan_patterns"`
	ConfirmedRelationships map[string]*ConfirmedRelationship  `json:"confirmed_relationships"`
}

// legacyNamingPattern is a v1 pattern-table entry: relationship counts plus one
// flat occurrence count, no accuracy tracking.
type legacyNamingPattern struct {
	PanguloLastname  string         `json:"pangulo_lastname"`
	AsawaLastname    string         `json:"asawa_lastname"`
	MemberLastname   string         `json:"member_lastname"`
	MemberMiddlename string         `json:"member_middlename"`
	Relationships    map[string]int `json:"relationships"`
	Count            int            `json:"count"`
}

// legacyKapisananPattern is a v1 entry keyed by a (kapisanan, relasyon) pair.
type legacyKapisananPattern struct {
	Kapisanan string `json:"kapisanan"`
	Relasyon  string `json:"relasyon"`
	Count     int    `json:"count"`
}

// decodeDocument parses raw document bytes, migrating pre-2.0 payloads forward.
// The second return reports whether a migration ran. Migrating an already-v2
// document is a no-op by construction: the v2 branch decodes it verbatim.
func decodeDocument(data []byte) (*LearningDocument, bool, error) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, err
	}

	if probe.Version == DocumentVersion {
		var doc LearningDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, false, err
		}
		normalizeDocument(&doc)
		return &doc, false, nil
	}

	var old legacyDocument
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, false, err
	}
	return migrateV1(&old), true, nil
}

// migrateV1 builds a fresh v2 document from a v1 document. Only the fields with
// a v2 equivalent carry over; everything else starts empty.
func migrateV1(old *legacyDocument) *LearningDocument {
	doc := NewDocument()

	doc.Statistics.TotalFamilies = old.Statistics.TotalFamilies
	doc.Statistics.TotalMembers = old.Statistics.TotalMembers
	doc.Statistics.TotalPatterns = old.Statistics.TotalPatterns

	for key, p := range old.NamingPatterns {
		if p == nil {
			continue
		}
		relationships := make(map[string]int, len(p.Relationships))
		for relasyon, count := range p.Relationships {
			relationships[relasyon] = count
		}
		doc.NamingPatterns[key] = &NamingPattern{
			PanguloLastname:  p.PanguloLastname,
			AsawaLastname:    p.AsawaLastname,
			MemberLastname:   p.MemberLastname,
			MemberMiddlename: p.MemberMiddlename,
			Relationships:    relationships,
			SuccessCount:     p.Count,
			TotalCount:       p.Count,
			// Legacy evidence is assumed fully successful; v1 had no failure path.
			Accuracy: 100,
		}
	}

	for _, kp := range old.KapisananPatterns {
		if kp == nil || kp.Kapisanan == "" || kp.Relasyon == "" {
			continue
		}
		group := doc.KapisananPatterns[kp.Kapisanan]
		if group == nil {
			group = make(map[string]*KapisananStat)
			doc.KapisananPatterns[kp.Kapisanan] = group
		}
		stat := group[kp.Relasyon]
		if stat == nil {
			stat = &KapisananStat{}
			group[kp.Relasyon] = stat
		}
		stat.Count += kp.Count
		stat.Success += kp.Count
	}

	for key, cr := range old.ConfirmedRelationships {
		if cr == nil {
			continue
		}
		copied := *cr
		doc.ConfirmedRelationships[key] = &copied
	}

	return doc
}

// normalizeDocument re-establishes the non-nil map invariants after a JSON
// decode, so the rest of the engine never nil-checks section maps.
func normalizeDocument(doc *LearningDocument) {
	if doc.MatchTypeStats == nil {
		doc.MatchTypeStats = make(map[string]*MatchTypeStat)
	}
	if doc.RelationshipAccuracy == nil {
		doc.RelationshipAccuracy = make(map[string]*RelationshipAccuracy)
	}
	if doc.NamingPatterns == nil {
		doc.NamingPatterns = make(map[string]*NamingPattern)
	}
	if doc.KapisananPatterns == nil {
		doc.KapisananPatterns = make(map[string]map[string]*KapisananStat)
	}
	if doc.ConfirmedRelationships == nil {
		doc.ConfirmedRelationships = make(map[string]*ConfirmedRelationship)
	}
	if doc.BehaviorLog == nil {
		doc.BehaviorLog = []BehaviorEntry{}
	}
	if doc.CorrectionPatterns == nil {
		doc.CorrectionPatterns = make(map[string]int)
	}
	if doc.DerivedRules == nil {
		doc.DerivedRules = RuleList{}
	}
}
