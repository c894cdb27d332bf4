package learning

import "testing"

func TestGeneratePatternKey(t *testing.T) {
	tests := []struct {
		name         string
		pangulo      string
		asawa        string
		memberLast   string
		memberMiddle string
		want         string
	}{
		{"child of both", "Santos", "Dela Cruz", "Santos", "Dela Cruz", "LM_"},
		{"spouse", "Santos", "Reyes", "Reyes", "", "__A"},
		{"lastname only", "Cruz", "", "Cruz", "", "L__"},
		{"no relation", "Santos", "Reyes", "Garcia", "Lopez", "___"},
		{"all three", "Reyes", "Reyes", "Reyes", "Reyes", "LMA"},
		{"middle contains asawa", "Santos", "Cruz", "Santos", "Dela Cruz", "LM_"},
		{"empty inputs", "", "", "", "", "___"},
		{"case insensitive", "SANTOS", "dela cruz", "santos", "DELA CRUZ", "LM_"},
		{"surrounding space", " Santos ", "Reyes", "Santos", " Reyes ", "LM_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePatternKey(tt.pangulo, tt.asawa, tt.memberLast, tt.memberMiddle)
			if got != tt.want {
				t.Errorf("GeneratePatternKey(%q, %q, %q, %q) = %q, want %q",
					tt.pangulo, tt.asawa, tt.memberLast, tt.memberMiddle, got, tt.want)
			}
		})
	}
}

func TestGeneratePatternKeyEmptyNamesNeverMatch(t *testing.T) {
	// Two empty surnames are equal strings but must not set a position.
	if got := GeneratePatternKey("", "", "", ""); got != "___" {
		t.Fatalf("empty names produced key %q, want ___", got)
	}
	if got := GeneratePatternKey("Santos", "", "Santos", ""); got != "L__" {
		t.Fatalf("empty asawa matched: key %q, want L__", got)
	}
}

func TestNamingConventionSuggestion(t *testing.T) {
	t.Run("strong match", func(t *testing.T) {
		s := NamingConventionSuggestion("Cruz", "Reyes", "Cruz", "Reyes")
		if s == nil {
			t.Fatal("expected a suggestion, got nil")
		}
		if s.Relasyon != RelasyonAnak {
			t.Errorf("Relasyon = %q, want %q", s.Relasyon, RelasyonAnak)
		}
		if s.Confidence != 0.95 {
			t.Errorf("Confidence = %v, want 0.95", s.Confidence)
		}
		if s.Source != SourceNamingConvention {
			t.Errorf("Source = %q, want %q", s.Source, SourceNamingConvention)
		}
	})

	t.Run("weak match", func(t *testing.T) {
		s := NamingConventionSuggestion("Cruz", "Reyes", "Garcia", "Reyes")
		if s == nil {
			t.Fatal("expected a suggestion, got nil")
		}
		if s.Confidence != 0.7 {
			t.Errorf("Confidence = %v, want 0.7", s.Confidence)
		}
	})

	t.Run("no middle name", func(t *testing.T) {
		if s := NamingConventionSuggestion("Cruz", "Reyes", "Cruz", ""); s != nil {
			t.Fatalf("expected nil, got %+v", s)
		}
	})

	t.Run("no asawa", func(t *testing.T) {
		if s := NamingConventionSuggestion("Cruz", "", "Cruz", "Reyes"); s != nil {
			t.Fatalf("expected nil, got %+v", s)
		}
	})

	t.Run("middle does not match", func(t *testing.T) {
		if s := NamingConventionSuggestion("Cruz", "Reyes", "Cruz", "Lopez"); s != nil {
			t.Fatalf("expected nil, got %+v", s)
		}
	})
}
