package model

// Intent represents what a free-text market query is asking for
type Intent struct {
	Areas         []string `json:"areas"` // Canonical lowercase names, vocabulary order
	IsComparison  bool     `json:"is_comparison"`
	IsPriceFocus  bool     `json:"is_price_focus"`
	IsDemandFocus bool     `json:"is_demand_focus"`
	YearWindow    int      `json:"year_window"` // Number of most recent years to include
}
