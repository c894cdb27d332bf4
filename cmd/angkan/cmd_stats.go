package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"angkan/cmd/angkan/ui"
	"angkan/internal/learning"
)

// statsCmd prints the trimmed AI-facing statistics summary.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the trimmed statistics summary used for AI prompts",
	RunE:  runStats,
}

// reportCmd prints the operator-facing accuracy report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the full accuracy report",
	RunE:  runReport,
}

// rulesCmd lists all derived rules.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the currently derived rules",
	RunE:  runRules,
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	stats := engine.GetStatisticsForAI()
	styles := ui.DefaultStyles()

	table := ui.NewTable("Top match types", "Match type", "Shown", "Accuracy")
	for _, mt := range stats.TopMatchTypes {
		table.AddRow(mt.MatchType, strconv.Itoa(mt.Shown),
			styles.AccuracyStyle(mt.Accuracy).Render(fmt.Sprintf("%.1f%%", mt.Accuracy)))
	}
	if out := table.View(styles); out != "" {
		fmt.Print(out)
		fmt.Println()
	}

	fmt.Printf("%s %d high, %d medium\n", styles.Label.Render("Derived rules:"),
		stats.HighConfidence, stats.MediumConfidence)
	if len(stats.Kapisanans) > 0 {
		fmt.Printf("%s %s\n", styles.Label.Render("Kapisanans:"), strings.Join(stats.Kapisanans, ", "))
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	report := engine.GetAccuracyReport()
	styles := ui.DefaultStyles()

	s := report.Statistics
	fmt.Println(styles.Title.Render("Learning statistics"))
	fmt.Printf("  Families: %d  Members: %d  Patterns: %d\n", s.TotalFamilies, s.TotalMembers, s.TotalPatterns)
	fmt.Printf("  Suggestions: %d shown, %d accepted, %d modified, %d rejected\n",
		s.TotalSuggestionsShown, s.TotalSuggestionsAccepted, s.TotalSuggestionsModified, s.TotalSuggestionsRejected)
	fmt.Printf("  Overall accuracy: %s\n",
		styles.AccuracyStyle(s.OverallAccuracy).Render(fmt.Sprintf("%.1f%%", s.OverallAccuracy)))
	fmt.Println()

	matchTypes := ui.NewTable("Match types", "Match type", "Shown", "Accepted", "Modified", "Rejected", "Accuracy")
	for _, name := range sortedMatchTypes(report.MatchTypes) {
		mt := report.MatchTypes[name]
		matchTypes.AddRow(name, strconv.Itoa(mt.Shown), strconv.Itoa(mt.Accepted),
			strconv.Itoa(mt.Modified), strconv.Itoa(mt.Rejected),
			styles.AccuracyStyle(mt.Accuracy).Render(fmt.Sprintf("%.1f%%", mt.Accuracy)))
	}
	if out := matchTypes.View(styles); out != "" {
		fmt.Print(out)
		fmt.Println()
	}

	patterns := ui.NewTable("Top naming patterns", "Pattern", "Relasyon", "Seen", "Accuracy")
	for _, p := range report.TopPatterns {
		patterns.AddRow(p.Pattern, p.Relasyon, strconv.Itoa(p.TotalCount),
			styles.AccuracyStyle(p.Accuracy).Render(fmt.Sprintf("%.1f%%", p.Accuracy)))
	}
	if out := patterns.View(styles); out != "" {
		fmt.Print(out)
		fmt.Println()
	}

	fmt.Print(renderRules(report.DerivedRules, styles))
	return nil
}

func runRules(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	report := engine.GetAccuracyReport()
	fmt.Print(renderRules(report.DerivedRules, ui.DefaultStyles()))
	return nil
}

func sortedMatchTypes(stats map[string]*learning.MatchTypeStat) []string {
	names := make([]string, 0, len(stats))
	for name, s := range stats {
		if s != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// renderRules lists derived rules grouped the way operators read them.
func renderRules(rules learning.RuleList, styles ui.Styles) string {
	if len(rules) == 0 {
		return "No derived rules yet\n"
	}

	table := ui.NewTable("Derived rules", "Type", "Rule", "Confidence")
	for _, rule := range rules {
		var desc string
		switch r := rule.(type) {
		case learning.NamingPatternRule:
			desc = fmt.Sprintf("%s => %s (%.1f%% over %d)", r.Pattern, r.Relasyon, r.Accuracy, r.Occurrences)
		case learning.MatchTypeRule:
			desc = fmt.Sprintf("%s source %.1f%% accurate (%d samples)", r.MatchType, r.Accuracy, r.SampleSize)
		case learning.KapisananRelationRule:
			desc = fmt.Sprintf("%s => %s (%.0f%% of %d)", r.Kapisanan, r.Relasyon, r.Correlation, r.Occurrences)
		case learning.CorrectionRule:
			desc = fmt.Sprintf("%s corrected to %s (%d times)", r.OriginalSuggestion, r.BetterSuggestion, r.CorrectionCount)
		default:
			continue
		}

		tier := string(rule.RuleTier())
		if rule.RuleTier() == learning.TierHigh {
			tier = styles.Good.Render(tier)
		}
		table.AddRow(string(rule.RuleType()), desc, tier)
	}
	return table.View(styles)
}
