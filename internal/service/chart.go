package service

import (
	"sort"

	"insights/internal/model"
)

// Single-area series keys
const (
	SeriesPrice  = "Price"
	SeriesDemand = "Demand"
)

// PriceKey and DemandKey name an area's series in comparison rows
func PriceKey(area string) string  { return model.NormalizeArea(area) + "_price" }
func DemandKey(area string) string { return model.NormalizeArea(area) + "_demand" }

// ToChartSeries reshapes a filtered subset into chart rows.
//
// Comparison rows are keyed by distinct year (ascending) and carry
// <area>_price / <area>_demand for each area with a record that year; areas
// without data that year are left out of the row. Single-area rows follow the
// subset one for one with Price and Demand.
func ToChartSeries(subset []model.Record, isComparison bool, areas []string) []model.ChartRow {
	if !isComparison {
		rows := make([]model.ChartRow, 0, len(subset))
		for _, r := range subset {
			rows = append(rows, model.ChartRow{
				Year: r.Year,
				Fields: []model.ChartField{
					{Key: SeriesPrice, Value: r.Price},
					{Key: SeriesDemand, Value: r.Demand},
				},
			})
		}
		return rows
	}

	// First record wins for a duplicated (year, area) pair
	type yearArea struct {
		year int
		area string
	}
	byYearArea := make(map[yearArea]model.Record, len(subset))
	seenYears := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range subset {
		k := yearArea{year: r.Year, area: r.AreaKey()}
		if _, ok := byYearArea[k]; !ok {
			byYearArea[k] = r
		}
		if !seenYears[r.Year] {
			seenYears[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)

	rows := make([]model.ChartRow, 0, len(years))
	for _, year := range years {
		row := model.ChartRow{Year: year, Fields: make([]model.ChartField, 0, 2*len(areas))}
		for _, area := range areas {
			rec, ok := byYearArea[yearArea{year: year, area: model.NormalizeArea(area)}]
			if !ok {
				continue
			}
			row.Fields = append(row.Fields,
				model.ChartField{Key: PriceKey(area), Value: rec.Price},
				model.ChartField{Key: DemandKey(area), Value: rec.Demand},
			)
		}
		rows = append(rows, row)
	}
	return rows
}
