// Audit logging: an append-only JSONL trail of learning-state changes.
// Every mutation of the learning document (suggestions shown, households
// learned, imports, resets) can be reconstructed from the audit file, which
// makes operator disputes about "what did the system learn and when"
// answerable without guessing.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType identifies one kind of learning-state change.
type AuditEventType string

const (
	AuditSuggestionShown AuditEventType = "suggestion_shown"
	AuditSuggestionMade  AuditEventType = "suggestion_made"
	AuditFamilyLearned   AuditEventType = "family_learned"
	AuditRulesDerived    AuditEventType = "rules_derived"
	AuditDocMigrated     AuditEventType = "document_migrated"
	AuditDocImported     AuditEventType = "document_imported"
	AuditDocExported     AuditEventType = "document_exported"
	AuditDocReset        AuditEventType = "document_reset"
)

// AuditEvent is one structured audit entry, written as a single JSON line.
type AuditEvent struct {
	Timestamp  int64          `json:"ts"` // Unix milliseconds
	EventType  AuditEventType `json:"event"`
	SessionID  string         `json:"session,omitempty"`
	Target     string         `json:"target,omitempty"` // pangulo, file, pattern key
	Success    bool           `json:"success"`
	DurationMs int64          `json:"dur_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
	Message    string         `json:"msg,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

var (
	auditFile   *os.File
	auditMu     sync.Mutex
	auditLogger *AuditLogger
)

// AuditLogger writes audit events, optionally scoped to a session.
type AuditLogger struct {
	sessionID string
}

// InitAudit opens the day's audit log. A no-op unless debug mode is on.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns the global audit logger.
func Audit() *AuditLogger {
	if auditLogger == nil {
		auditLogger = &AuditLogger{}
	}
	return auditLogger
}

// AuditWithSession creates an audit logger scoped to a session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event, filling in defaults.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" && a.sessionID != "" {
		event.SessionID = a.sessionID
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// SuggestionShown records a batch of suggestions presented to the operator.
func (a *AuditLogger) SuggestionShown(sessionID, panguloID string, count int) {
	a.Log(AuditEvent{
		EventType: AuditSuggestionShown,
		SessionID: sessionID,
		Target:    panguloID,
		Success:   true,
		Fields:    map[string]any{"count": count},
	})
}

// SuggestionMade records one generated suggestion and its confidence.
func (a *AuditLogger) SuggestionMade(relasyon, source string, confidence float64) {
	a.Log(AuditEvent{
		EventType: AuditSuggestionMade,
		Target:    relasyon,
		Success:   true,
		Fields:    map[string]any{"source": source, "confidence": confidence},
	})
}

// FamilyLearned records one ingested household outcome.
func (a *AuditLogger) FamilyLearned(panguloName string, members int, err error) {
	event := AuditEvent{
		EventType: AuditFamilyLearned,
		Target:    panguloName,
		Success:   err == nil,
		Fields:    map[string]any{"members": members},
	}
	if err != nil {
		event.Error = err.Error()
	}
	a.Log(event)
}

// RulesDerived records a rule-derivation pass.
func (a *AuditLogger) RulesDerived(count int) {
	a.Log(AuditEvent{
		EventType: AuditRulesDerived,
		Success:   true,
		Fields:    map[string]any{"rules": count},
	})
}

// DocumentEvent records a document-level operation: migrate, import, export,
// reset.
func (a *AuditLogger) DocumentEvent(eventType AuditEventType, target string, err error) {
	event := AuditEvent{
		EventType: eventType,
		Target:    target,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	a.Log(event)
}
