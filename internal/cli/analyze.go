package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"insights/internal/app"
	"insights/internal/dataset"
	"insights/internal/model"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(load ConfigLoader) *cobra.Command {
	var (
		file      string
		asJSON    bool
		withChart bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Analyze a query against the market dataset",
		Example: `  insights analyze "wakad price growth"
  insights analyze "compare wakad and aundh last 2 years" --file market.xlsx
  insights analyze "akurdi demand" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, load)
			if err != nil {
				return err
			}

			var (
				records []model.Record
				source  string
			)
			if file != "" {
				records, err = dataset.LoadExcelFile(file)
				source = dataset.SourceExcel
			} else {
				records, source, err = app.LoadDataset(cmd.Context(), cfg, logger)
			}
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			svc, err := app.NewAnalysisService(cfg, dataset.NewProvider(records, source), logger)
			if err != nil {
				return err
			}

			result, outcome := svc.Analyze(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return writeResult(out, result, outcome, withChart)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read records from this .xlsx file instead of the configured source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&withChart, "chart", false, "Also print the chart series")
	return cmd
}
