package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataPath != "" {
		t.Errorf("DataPath = %q, want empty", cfg.DataPath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".angkan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{bad"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(ws); err == nil {
		t.Fatal("expected an error for malformed config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ws := t.TempDir()

	cfg := Default()
	cfg.DataPath = "state"
	cfg.Logging.DebugMode = true
	cfg.Logging.Categories = map[string]bool{"store": true}
	if err := cfg.Save(ws); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(ws)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DataPath != "state" {
		t.Errorf("DataPath = %q, want state", got.DataPath)
	}
	if !got.Logging.DebugMode || !got.Logging.Categories["store"] {
		t.Errorf("logging config not preserved: %+v", got.Logging)
	}
}

func TestDataDir(t *testing.T) {
	ws := string(filepath.Separator) + filepath.Join("srv", "angkan")

	tests := []struct {
		dataPath string
		want     string
	}{
		{"", filepath.Join(ws, "data")},
		{"state", filepath.Join(ws, "state")},
		{filepath.Join(string(filepath.Separator), "var", "angkan"), filepath.Join(string(filepath.Separator), "var", "angkan")},
	}
	for _, tt := range tests {
		cfg := &Config{DataPath: tt.dataPath}
		if got := cfg.DataDir(ws); got != tt.want {
			t.Errorf("DataDir(%q) with DataPath %q = %q, want %q", ws, tt.dataPath, got, tt.want)
		}
	}
}

func TestFindWorkspaceRootPrefersMarkerDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".angkan"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	// Resolve symlinks: temp dirs on some platforms sit behind one.
	wantReal, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != wantReal {
		t.Errorf("FindWorkspaceRoot = %q, want %q", got, root)
	}
}
