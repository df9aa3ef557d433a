package service

import "insights/internal/model"

// FilterRecords keeps the records of the intent's areas whose year falls inside
// the lookback window ending at referenceYear. Order is preserved. The result
// may be empty.
func FilterRecords(records []model.Record, intent *model.Intent, referenceYear int) []model.Record {
	startYear := referenceYear - intent.YearWindow + 1

	wanted := make(map[string]bool, len(intent.Areas))
	for _, a := range intent.Areas {
		wanted[model.NormalizeArea(a)] = true
	}

	filtered := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.Year >= startYear && wanted[r.AreaKey()] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// recordsForArea returns the rows of subset belonging to area, in subset order
func recordsForArea(subset []model.Record, area string) []model.Record {
	key := model.NormalizeArea(area)
	var rows []model.Record
	for _, r := range subset {
		if r.AreaKey() == key {
			rows = append(rows, r)
		}
	}
	return rows
}
