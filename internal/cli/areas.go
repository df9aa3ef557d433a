package cli

import (
	"fmt"

	"insights/internal/app"
	"insights/internal/dataset"
	"insights/internal/model"
	"insights/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAreasCommand(load ConfigLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "List the areas queries can name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, load)
			if err != nil {
				return err
			}
			records, _, err := app.LoadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			present := make(map[string]bool)
			for _, area := range dataset.DistinctAreas(records) {
				present[model.NormalizeArea(area)] = true
			}

			out := cmd.OutOrStdout()
			parser := service.NewIntentParser(cfg.Dataset.KnownAreas, cfg.Dataset.DefaultWindow)
			for _, area := range parser.KnownAreas() {
				mark := color.GreenString("✓")
				if !present[area] {
					mark = color.YellowString("-")
				}
				if _, err := fmt.Fprintf(out, "%s %s\n", mark, service.DisplayArea(area)); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "%d rows in dataset\n", len(records))
			return err
		},
	}
}
