// Package learning: the caller-facing engine.
// Engine ties the suggestion, learning, and reporting passes to one injected
// Store. Mutating operations run load-mutate-save under a mutex; read paths work
// on a snapshot and degrade to an empty document if the store is unreadable, so
// a broken disk never blocks the suggestion flow.
package learning

import (
	"fmt"
	"sync"

	"angkan/internal/logging"
)

// Engine is the single entry point consumed by the household-composition layer.
type Engine struct {
	mu    sync.Mutex
	store Store
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// snapshot loads the current document for a read-only pass. Storage errors fall
// back to an empty document: suggestions are advisory and must never fail hard.
func (e *Engine) snapshot() *LearningDocument {
	doc, err := e.store.Load()
	if err != nil {
		logging.StoreWarn("Load failed, treating learning store as empty: %v", err)
		return NewDocument()
	}
	return doc
}

// Suggest returns the best relationship suggestion for one candidate member, or
// nil when no source produces a candidate.
func (e *Engine) Suggest(req SuggestRequest) *Suggestion {
	s := suggestFromDocument(e.snapshot(), req)
	if s != nil {
		logging.Audit().SuggestionMade(s.Relasyon, s.Source, s.Confidence)
	}
	return s
}

// RecordShown registers a batch of suggestions presented to the operator and
// returns a session identifier for later correlation.
func (e *Engine) RecordShown(suggestions []ShownSuggestion, panguloID, asawaID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.store.Load()
	if err != nil {
		return "", fmt.Errorf("record shown: %w", err)
	}
	sessionID := recordShown(doc, suggestions, panguloID, asawaID)
	if err := e.store.Save(doc); err != nil {
		return "", fmt.Errorf("record shown: %w", err)
	}
	logging.Audit().SuggestionShown(sessionID, panguloID, len(suggestions))
	return sessionID, nil
}

// LearnFromFamilySave ingests one finalized household: suggestion outcomes,
// pattern reinforcement, confirmed facts, and a fresh rule derivation.
func (e *Engine) LearnFromFamilySave(outcome FamilyOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.store.Load()
	if err != nil {
		logging.Audit().FamilyLearned(outcome.PanguloName, len(outcome.Members), err)
		return fmt.Errorf("learn from family save: %w", err)
	}
	learnFromFamilySave(doc, outcome)
	err = e.store.Save(doc)
	logging.Audit().FamilyLearned(outcome.PanguloName, len(outcome.Members), err)
	if err != nil {
		return fmt.Errorf("learn from family save: %w", err)
	}
	return nil
}

// GetConfirmedRelationship looks up a previously finalized pangulo/member
// pairing. Returns nil when the pair was never confirmed.
func (e *Engine) GetConfirmedRelationship(panguloName, memberName string) *ConfirmedRelationship {
	doc := e.snapshot()
	return doc.ConfirmedRelationships[confirmedKey(panguloName, memberName)]
}

// GetStatisticsForAI returns the trimmed summary for the external AI prompt.
func (e *Engine) GetStatisticsForAI() AIStatistics {
	return statisticsForAI(e.snapshot())
}

// GetAccuracyReport returns the operator-facing accuracy report.
func (e *Engine) GetAccuracyReport() AccuracyReport {
	return accuracyReport(e.snapshot())
}

// Export returns the raw persisted document for backup.
func (e *Engine) Export() ([]byte, error) {
	data, err := e.store.Export()
	logging.Audit().DocumentEvent(logging.AuditDocExported, "", err)
	return data, err
}

// Import replaces the document with a previously exported payload.
func (e *Engine) Import(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.store.Import(data)
	logging.Audit().DocumentEvent(logging.AuditDocImported, "", err)
	return err
}

// Reset overwrites the document with the empty structure.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.store.Reset()
	logging.Audit().DocumentEvent(logging.AuditDocReset, "", err)
	return err
}
