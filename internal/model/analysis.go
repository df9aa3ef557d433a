package model

import (
	"bytes"
	"encoding/json"
)

// ChartField is a single named value inside a chart row
type ChartField struct {
	Key   string
	Value float64
}

// ChartRow is one point on the x-axis (a year) with its series values.
// Fields keep insertion order when serialized.
type ChartRow struct {
	Year   int
	Fields []ChartField
}

// Get returns the value stored under key
func (r ChartRow) Get(key string) (float64, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler, flattening fields next to "year"
func (r ChartRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"year":`)
	year, err := json.Marshal(r.Year)
	if err != nil {
		return nil, err
	}
	buf.Write(year)

	for _, f := range r.Fields {
		if f.Key == "year" {
			continue
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnalysisResult is the response returned for every analyze request
type AnalysisResult struct {
	Summary      string     `json:"summary"`
	Chart        []ChartRow `json:"chart"`
	Table        []Record   `json:"table"`
	Areas        []string   `json:"areas"`
	IsComparison bool       `json:"isComparison"`
}

// NewFailureResult builds a well-formed result carrying only an explanation
func NewFailureResult(message string) *AnalysisResult {
	return &AnalysisResult{
		Summary:      message,
		Chart:        []ChartRow{},
		Table:        []Record{},
		Areas:        []string{},
		IsComparison: false,
	}
}

// AnalyzeRequest represents an analyze query request
type AnalyzeRequest struct {
	Query string `json:"query"`
}

// UploadResponse is returned after a spreadsheet has been ingested
type UploadResponse struct {
	Message string   `json:"message"`
	Rows    int      `json:"rows"`
	Areas   []string `json:"areas"`
	Applied bool     `json:"applied"` // Whether the active dataset was replaced
}

// AreasResponse lists the known vocabulary and areas present in the dataset
type AreasResponse struct {
	Known   []string `json:"known"`
	Dataset []string `json:"dataset"`
	Rows    int      `json:"rows"`
}
