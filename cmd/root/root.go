// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mlaurent/stmt-categorize/internal/config"
)

// CommonFlags represents the flags that are common to multiple commands.
type CommonFlags struct {
	Input    string
	Output   string
	Industry string
	Totals   string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg holds the loaded application configuration, populated before any
	// subcommand runs.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "stmt-categorize",
		Short: "Categorize bank statement transactions into statement line items.",
		Long: `stmt-categorize assigns a category to every transaction of a bank
statement using dictionary-based fuzzy matching, with an AI classifier as
fallback for descriptions the dictionaries cannot place, and rolls the
result up into industry-specific statement line items.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
			return nil
		},
	}

	// SharedFlags holds common flag values accessible to all commands.
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and its persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Industry, "industry", "I", "", "Industry configuration to categorize under")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Totals, "totals", "t", "", "Optional output file for statement line-item totals")
}

// Delimiter returns the configured CSV delimiter as a rune.
func Delimiter() rune {
	if Cfg == nil || Cfg.CSV.Delimiter == "" {
		return ','
	}
	return []rune(Cfg.CSV.Delimiter)[0]
}
