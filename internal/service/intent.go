package service

import (
	"regexp"
	"strconv"
	"strings"

	"insights/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lastYearsPattern = regexp.MustCompile(`last (\d+) years?`)

// DisplayArea renders a canonical area name for humans, e.g. "ambegaon budruk" -> "Ambegaon Budruk"
func DisplayArea(area string) string {
	// Casers carry state, so each call gets its own
	return cases.Title(language.English).String(area)
}

// IntentParser turns free-text market questions into an Intent using a fixed vocabulary
type IntentParser struct {
	areas         []string
	defaultWindow int
}

// NewIntentParser creates a parser for the given area vocabulary.
// Names are matched lowercase in the order given.
func NewIntentParser(areas []string, defaultWindow int) *IntentParser {
	vocab := make([]string, 0, len(areas))
	for _, a := range areas {
		if a = model.NormalizeArea(a); a != "" {
			vocab = append(vocab, a)
		}
	}
	if defaultWindow <= 0 {
		defaultWindow = 4
	}
	return &IntentParser{areas: vocab, defaultWindow: defaultWindow}
}

// KnownAreas returns the vocabulary in match order
func (p *IntentParser) KnownAreas() []string {
	return append([]string(nil), p.areas...)
}

// Parse extracts areas, focus flags and the lookback window from query.
// It fails with a *NoAreaError when no known area is mentioned.
func (p *IntentParser) Parse(query string) (*model.Intent, error) {
	q := strings.ToLower(query)

	var mentioned []string
	for _, area := range p.areas {
		if strings.Contains(q, area) {
			mentioned = append(mentioned, area)
		}
	}
	if len(mentioned) == 0 {
		return nil, &NoAreaError{Areas: p.areas}
	}

	intent := &model.Intent{
		Areas:         mentioned,
		IsComparison:  strings.Contains(q, "compare") || len(mentioned) > 1,
		IsPriceFocus:  strings.Contains(q, "price") || strings.Contains(q, "growth"),
		IsDemandFocus: strings.Contains(q, "demand"),
		YearWindow:    p.defaultWindow,
	}

	// A "last" without a usable count keeps the default window
	if strings.Contains(q, "last") {
		if m := lastYearsPattern.FindStringSubmatch(q); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				intent.YearWindow = n
			}
		}
	}

	return intent, nil
}
