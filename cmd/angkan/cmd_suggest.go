package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"angkan/internal/learning"
)

var (
	suggestPangulo   string
	suggestAsawa     string
	suggestLastName  string
	suggestMiddle    string
	suggestKapisanan string
	suggestMatchType string
)

// suggestCmd produces a relationship suggestion for one candidate member.
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a relationship for a candidate household member",
	Long: `Runs the full suggestion pipeline for one candidate: learned rules, the
exact pattern table, the Filipino naming convention (middle name = mother's
maiden surname), and the kapisanan majority vote.

Example:
  angkan suggest --pangulo Santos --asawa "Dela Cruz" --lastname Santos --middlename "Dela Cruz"`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestPangulo, "pangulo", "", "Household head's last name (required)")
	suggestCmd.Flags().StringVar(&suggestAsawa, "asawa", "", "Spouse's last name")
	suggestCmd.Flags().StringVar(&suggestLastName, "lastname", "", "Candidate member's last name (required)")
	suggestCmd.Flags().StringVar(&suggestMiddle, "middlename", "", "Candidate member's middle name")
	suggestCmd.Flags().StringVar(&suggestKapisanan, "kapisanan", "", "Candidate's kapisanan label")
	suggestCmd.Flags().StringVar(&suggestMatchType, "match-type", "", "Raw match-type hint from the caller")
	suggestCmd.MarkFlagRequired("pangulo")
	suggestCmd.MarkFlagRequired("lastname")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	suggestion := engine.Suggest(learning.SuggestRequest{
		PanguloLastName:  suggestPangulo,
		AsawaLastName:    suggestAsawa,
		MemberLastName:   suggestLastName,
		MemberMiddleName: suggestMiddle,
		Kapisanan:        suggestKapisanan,
		MatchType:        suggestMatchType,
	})
	if suggestion == nil {
		fmt.Println("No suggestion (no accumulated evidence matches this candidate)")
		return nil
	}

	logger.Debug("Suggestion produced",
		zap.String("relasyon", suggestion.Relasyon),
		zap.Float64("confidence", suggestion.Confidence),
		zap.String("source", suggestion.Source))

	fmt.Printf("Relasyon:   %s\n", suggestion.Relasyon)
	fmt.Printf("Confidence: %.2f\n", suggestion.Confidence)
	fmt.Printf("Source:     %s\n", suggestion.Source)
	fmt.Printf("Reason:     %s\n", suggestion.Reason)
	return nil
}
