package learning

import "testing"

func TestParseFullName(t *testing.T) {
	tests := []struct {
		in   string
		want NameParts
	}{
		{"", NameParts{}},
		{"Maria", NameParts{First: "Maria"}},
		{"Maria Santos", NameParts{First: "Maria", Last: "Santos"}},
		{"Maria Reyes Santos", NameParts{First: "Maria", Middle: "Reyes", Last: "Santos"}},
		{"Ana Dela Cruz Santos", NameParts{First: "Ana", Middle: "Dela Cruz", Last: "Santos"}},
		{"  Juan   Cruz  ", NameParts{First: "Juan", Last: "Cruz"}},
	}

	for _, tt := range tests {
		got := ParseFullName(tt.in)
		if got != tt.want {
			t.Errorf("ParseFullName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestConfirmedKey(t *testing.T) {
	a := confirmedKey("Juan Santos", "Ana Santos")
	b := confirmedKey("juan  SANTOS", "ANA santos")
	if a != b {
		t.Errorf("key not stable under case and spacing: %q vs %q", a, b)
	}
	if len(a) != 8 {
		t.Errorf("key %q is not 8 hex chars", a)
	}

	if confirmedKey("Juan Santos", "Ana Santos") == confirmedKey("Ana Santos", "Juan Santos") {
		t.Error("swapping pangulo and member should change the key")
	}
}
