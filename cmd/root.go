package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"treeflat/pkg/config"
	"treeflat/pkg/logging"
	"treeflat/pkg/version"
)

var (
	debug      bool
	configPath string

	// cfg is loaded once per invocation, before any subcommand runs.
	cfg = config.Default()
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "treeflat",
	Short: "Treeflat flattens files and folders into one text report",
	Long: `Treeflat walks the given files and directories and prints a tree listing
interleaved with the text of every file, ready to paste into another tool.
Files whose names match a filter rule keep their line in the tree but have
their content hidden.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Setup(debug, version.AppName, version.Get().Version); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		loaded, err := config.Load(configPath, logging.Logger)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logging.Logger.Debug("Configuration ready",
			zap.Int("maxDepth", cfg.MaxDepth),
			zap.Int("customRules", len(cfg.CustomRules)),
			zap.String("rulesFile", cfg.RulesFile))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return RootCmd.Execute()
}
