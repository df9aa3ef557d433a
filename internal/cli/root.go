// Package cli implements the insights command line tool.
package cli

import (
	"insights/internal/config"
	"insights/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ConfigLoader returns the configuration a command runs with
type ConfigLoader func() (*config.Config, error)

// NewRootCommand builds the insights command tree
func NewRootCommand(version string, load ConfigLoader) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "insights",
		Short:         "Real estate market insights from natural language queries",
		Long:          `insights answers questions like "compare wakad and aundh price last 3 years" against the market dataset, offline.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newAnalyzeCommand(load))
	root.AddCommand(newAreasCommand(load))
	return root
}

// setup loads configuration and a logger that writes to the command's stderr
func setup(cmd *cobra.Command, load ConfigLoader) (*config.Config, *log.Logger, error) {
	cfg, err := load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging)
	logging.ReportConfigWarnings(logger, cfg.Warnings)
	return cfg, logger, nil
}
