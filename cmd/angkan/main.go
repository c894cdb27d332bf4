// Command angkan is the operator front-end for the family-relationship
// suggestion learning engine. The engine itself lives in internal/learning and
// is consumed by the household-composition layer; this binary stands in for
// that layer during operation and inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"angkan/internal/config"
	"angkan/internal/learning"
	"angkan/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	dataDir   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "angkan",
	Short: "angkan - family-relationship suggestion learning engine",
	Long: `angkan learns how operators accept, reject, and correct suggested family
relationships (Anak, Asawa, Kapatid, ...) while composing household records, and
uses that behavior to improve future suggestions.

All learned state lives in a single versioned JSON document under the data
directory. Suggestions are advisory: an empty result means "no evidence yet",
never an error.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = config.FindWorkspaceRoot()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("Debug logging unavailable", zap.Error(err))
		}
		if err := logging.InitAudit(); err != nil {
			logger.Warn("Audit logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAudit()
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newEngine builds the engine over the configured file store.
func newEngine() (*learning.Engine, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir(workspace)
	}
	store, err := learning.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Learning store ready", zap.String("path", store.Path()))
	return learning.NewEngine(store), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory override")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(recordShownCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(confirmedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
