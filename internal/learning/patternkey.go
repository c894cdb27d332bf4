// Package learning: pattern-key derivation.
// This file derives the compact categorical key that groups household members by
// how their surname and middle name relate to the pangulo's and asawa's surnames.
package learning

import "strings"

// GeneratePatternKey builds a 3-character relationship signature:
//
//	position 1: 'L' if the member shares the pangulo's last name
//	position 2: 'M' if the member's middle name matches (or contains) the asawa's last name
//	position 3: 'A' if the member shares the asawa's last name
//
// Unset positions render as '_'. Comparison is case-insensitive and Unicode-aware.
// The key is intentionally coarse - sixteen possible values - so sparse evidence
// from many different households can accumulate under a shared signature.
func GeneratePatternKey(panguloLastName, asawaLastName, memberLastName, memberMiddleName string) string {
	pangulo := foldName(panguloLastName)
	asawa := foldName(asawaLastName)
	last := foldName(memberLastName)
	middle := foldName(memberMiddleName)

	key := []byte{'_', '_', '_'}
	if pangulo != "" && last != "" && pangulo == last {
		key[0] = 'L'
	}
	if asawa != "" && middle != "" && (middle == asawa || strings.Contains(middle, asawa)) {
		key[1] = 'M'
	}
	if asawa != "" && last != "" && asawa == last {
		key[2] = 'A'
	}
	return string(key)
}

// NamingConventionSuggestion applies the Filipino naming convention: a child's
// middle name is the mother's maiden surname. If the member's middle name matches
// the asawa's surname the member is likely an Anak - strongly so when the last
// name also matches the pangulo's surname, weakly otherwise.
// Returns nil when the convention does not apply.
func NamingConventionSuggestion(panguloLastName, asawaLastName, memberLastName, memberMiddleName string) *Suggestion {
	asawa := foldName(asawaLastName)
	middle := foldName(memberMiddleName)
	if asawa == "" || middle == "" {
		return nil
	}
	if middle != asawa && !strings.Contains(middle, asawa) {
		return nil
	}

	pangulo := foldName(panguloLastName)
	last := foldName(memberLastName)
	if pangulo != "" && last != "" && pangulo == last {
		return &Suggestion{
			Relasyon:   RelasyonAnak,
			Confidence: 0.95,
			Reason:     "Middle name matches asawa's surname and last name matches pangulo's surname",
			Source:     SourceNamingConvention,
		}
	}
	return &Suggestion{
		Relasyon:   RelasyonAnak,
		Confidence: 0.7,
		Reason:     "Middle name matches asawa's surname",
		Source:     SourceNamingConvention,
	}
}

// foldName normalizes a name fragment for comparison.
func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
