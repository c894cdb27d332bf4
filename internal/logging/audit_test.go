package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuditTrail(t *testing.T) {
	tempDir := t.TempDir()
	writeTestConfig(t, tempDir, `{
		"logging": {"level": "debug", "debug_mode": true}
	}`)

	resetLoggingState()
	defer resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if err := InitAudit(); err != nil {
		t.Fatalf("Failed to initialize audit: %v", err)
	}

	Audit().SuggestionMade("Anak", "naming_convention", 0.95)
	Audit().FamilyLearned("Juan Santos", 3, nil)
	Audit().RulesDerived(2)
	AuditWithSession("session-1").SuggestionShown("session-1", "p1", 4)
	Audit().DocumentEvent(AuditDocReset, "", nil)
	CloseAudit()

	logsPath := filepath.Join(tempDir, ".angkan", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	var auditPath string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), "_audit.log") {
			auditPath = filepath.Join(logsPath, entry.Name())
		}
	}
	if auditPath == "" {
		t.Fatal("No audit log file created")
	}

	file, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}
	defer file.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		var event AuditEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("Audit line is not valid JSON: %q: %v", line, err)
		}
		events = append(events, event)
	}

	if len(events) != 5 {
		t.Fatalf("Got %d audit events, want 5", len(events))
	}
	if events[0].EventType != AuditSuggestionMade || events[0].Target != "Anak" {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].EventType != AuditFamilyLearned || !events[1].Success {
		t.Errorf("event 1 = %+v", events[1])
	}
	if events[3].SessionID != "session-1" {
		t.Errorf("event 3 session = %q, want session-1", events[3].SessionID)
	}
	for _, event := range events {
		if event.Timestamp == 0 {
			t.Errorf("event %s has no timestamp", event.EventType)
		}
	}
}

func TestAuditDisabledInProduction(t *testing.T) {
	tempDir := t.TempDir()

	resetLoggingState()
	defer resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if err := InitAudit(); err != nil {
		t.Fatalf("InitAudit must be a no-op in production: %v", err)
	}

	// Must not panic or create any files.
	Audit().FamilyLearned("Juan Santos", 1, nil)
	CloseAudit()

	if _, err := os.Stat(filepath.Join(tempDir, ".angkan", "logs")); !os.IsNotExist(err) {
		t.Error("Audit created files in production mode")
	}
}
