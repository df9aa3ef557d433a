package model

import "strings"

// Record represents one yearly observation for an area
type Record struct {
	Year   int     `json:"year" db:"year"`
	Area   string  `json:"area" db:"area"`
	Price  float64 `json:"price" db:"price"`   // Average price per sq.ft
	Demand float64 `json:"demand" db:"demand"` // Demand index
	Size   float64 `json:"size" db:"size"`     // Typical unit size in sq.ft
	Type   string  `json:"type" db:"type"`     // Unit configuration, e.g. 2BHK
}

// AreaKey returns the case-folded area name used for identity comparisons
func (r Record) AreaKey() string {
	return NormalizeArea(r.Area)
}

// NormalizeArea lowercases an area name and collapses inner whitespace
func NormalizeArea(area string) string {
	return strings.Join(strings.Fields(strings.ToLower(area)), " ")
}
