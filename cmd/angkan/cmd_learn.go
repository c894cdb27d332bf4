package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"angkan/internal/learning"
)

// learnCmd ingests a finalized household from a YAML file.
var learnCmd = &cobra.Command{
	Use:   "learn [family.yaml]",
	Short: "Learn from a finalized household record",
	Long: `Reads a finalized household from a YAML file and feeds it through the
learning pass: suggestion outcomes, pattern reinforcement, confirmed facts, and
a fresh rule derivation.

File shape:
  pangulo_name: Juan Santos
  asawa_name: Maria Dela Cruz Santos
  members:
    - full_name: Ana Dela Cruz Santos
      relasyon: Anak
      kapisanan: Binhi
  suggestions_shown:
    - id: s1
      match_type: lastname
      relasyon: Anak
  suggestions_accepted: [s1]
  suggestions_modified: {}`,
	Args: cobra.ExactArgs(1),
	RunE: runLearn,
}

var (
	shownPanguloID string
	shownAsawaID   string
)

// recordShownCmd registers a batch of suggestions presented to the operator.
var recordShownCmd = &cobra.Command{
	Use:   "record-shown [suggestions.yaml]",
	Short: "Record a batch of suggestions shown to the operator",
	Long: `Reads a YAML list of shown suggestions and records them, printing the
session identifier for later correlation.

File shape:
  - id: s1
    match_type: lastname
    relasyon: Anak`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordShown,
}

func init() {
	recordShownCmd.Flags().StringVar(&shownPanguloID, "pangulo-id", "", "Household head record ID (required)")
	recordShownCmd.Flags().StringVar(&shownAsawaID, "asawa-id", "", "Spouse record ID")
	recordShownCmd.MarkFlagRequired("pangulo-id")
}

func runLearn(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read family file: %w", err)
	}

	var outcome learning.FamilyOutcome
	if err := yaml.Unmarshal(data, &outcome); err != nil {
		return fmt.Errorf("parse family file: %w", err)
	}
	if outcome.PanguloName == "" {
		return fmt.Errorf("family file is missing pangulo_name")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	if err := engine.LearnFromFamilySave(outcome); err != nil {
		return err
	}

	logger.Info("Household learned",
		zap.String("pangulo", outcome.PanguloName),
		zap.Int("members", len(outcome.Members)))
	fmt.Printf("Learned from household of %s (%d members)\n", outcome.PanguloName, len(outcome.Members))
	return nil
}

func runRecordShown(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read suggestions file: %w", err)
	}

	var suggestions []learning.ShownSuggestion
	if err := yaml.Unmarshal(data, &suggestions); err != nil {
		return fmt.Errorf("parse suggestions file: %w", err)
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	sessionID, err := engine.RecordShown(suggestions, shownPanguloID, shownAsawaID)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %d shown suggestions (session %s)\n", len(suggestions), sessionID)
	return nil
}
