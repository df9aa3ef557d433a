package dataset

import "insights/internal/model"

// Source names reported in snapshots
const (
	SourceBuiltIn  = "builtin"
	SourceExcel    = "excel"
	SourceUpload   = "upload"
	SourcePostgres = "postgres"
)

var builtIn = []model.Record{
	{Year: 2021, Area: "Wakad", Price: 5500, Demand: 850, Size: 1200, Type: "2BHK"},
	{Year: 2022, Area: "Wakad", Price: 6200, Demand: 920, Size: 1200, Type: "2BHK"},
	{Year: 2023, Area: "Wakad", Price: 6800, Demand: 980, Size: 1200, Type: "2BHK"},
	{Year: 2024, Area: "Wakad", Price: 7500, Demand: 1050, Size: 1200, Type: "2BHK"},
	{Year: 2021, Area: "Aundh", Price: 7200, Demand: 950, Size: 1400, Type: "3BHK"},
	{Year: 2022, Area: "Aundh", Price: 7800, Demand: 1020, Size: 1400, Type: "3BHK"},
	{Year: 2023, Area: "Aundh", Price: 8500, Demand: 1100, Size: 1400, Type: "3BHK"},
	{Year: 2024, Area: "Aundh", Price: 9200, Demand: 1180, Size: 1400, Type: "3BHK"},
	{Year: 2021, Area: "Ambegaon Budruk", Price: 4200, Demand: 680, Size: 1000, Type: "2BHK"},
	{Year: 2022, Area: "Ambegaon Budruk", Price: 4600, Demand: 720, Size: 1000, Type: "2BHK"},
	{Year: 2023, Area: "Ambegaon Budruk", Price: 5100, Demand: 780, Size: 1000, Type: "2BHK"},
	{Year: 2024, Area: "Ambegaon Budruk", Price: 5600, Demand: 840, Size: 1000, Type: "2BHK"},
	{Year: 2021, Area: "Akurdi", Price: 3800, Demand: 620, Size: 950, Type: "2BHK"},
	{Year: 2022, Area: "Akurdi", Price: 4100, Demand: 660, Size: 950, Type: "2BHK"},
	{Year: 2023, Area: "Akurdi", Price: 4500, Demand: 710, Size: 950, Type: "2BHK"},
	{Year: 2024, Area: "Akurdi", Price: 4900, Demand: 760, Size: 950, Type: "2BHK"},
}

// BuiltIn returns a fresh copy of the sample Pune market table
func BuiltIn() []model.Record {
	return append([]model.Record(nil), builtIn...)
}
