package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"insights/internal/model"
	"insights/internal/service"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeResult prints the summary, then the matching rows as a table
func writeResult(w io.Writer, result *model.AnalysisResult, outcome service.SummaryOutcome, withChart bool) error {
	title := color.New(color.Bold, color.FgCyan).SprintFunc()

	lines := strings.Split(result.Summary, "\n")
	if _, err := fmt.Fprintln(w, title(lines[0])); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(result.Table) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := writeRecordTable(w, result.Table); err != nil {
		return fmt.Errorf("error writing table output: %w", err)
	}
	if withChart {
		if err := writeChartTable(w, result.Chart); err != nil {
			return fmt.Errorf("error writing chart output: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "Showing %d rows for %s. Summary source: %s\n",
		len(result.Table), strings.Join(displayAreas(result.Areas), ", "), outcome.Source)
	return err
}

func writeRecordTable(w io.Writer, records []model.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Area", "Price", "Demand", "Size", "Type", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// Change compares each row with the previous row of the same area
	lastPrice := make(map[string]float64)
	data := make([][]string, 0, len(records))
	for _, r := range records {
		change := ""
		if prev, ok := lastPrice[r.AreaKey()]; ok {
			change = priceChange(prev, r.Price)
		}
		lastPrice[r.AreaKey()] = r.Price

		data = append(data, []string{
			strconv.Itoa(r.Year),
			r.Area,
			formatNumber(r.Price),
			formatNumber(r.Demand),
			formatNumber(r.Size),
			r.Type,
			change,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeChartTable(w io.Writer, rows []model.ChartRow) error {
	// Union of series keys, first-seen order
	var keys []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, f := range row.Fields {
			if !seen[f.Key] {
				seen[f.Key] = true
				keys = append(keys, f.Key)
			}
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Year"}, keys...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{strconv.Itoa(row.Year)}
		for _, k := range keys {
			if v, ok := row.Get(k); ok {
				line = append(line, formatNumber(v))
			} else {
				line = append(line, "-")
			}
		}
		data = append(data, line)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// priceChange renders the growth from prev to cur, colored by direction
func priceChange(prev, cur float64) string {
	g, err := service.GrowthPercent(prev, cur)
	if err != nil {
		return "n/a"
	}
	s := fmt.Sprintf("%+.1f%%", g)
	switch {
	case g > 0:
		return color.GreenString(s)
	case g < 0:
		return color.RedString(s)
	default:
		return color.YellowString(s)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func displayAreas(areas []string) []string {
	out := make([]string, len(areas))
	for i, a := range areas {
		out[i] = service.DisplayArea(a)
	}
	return out
}
