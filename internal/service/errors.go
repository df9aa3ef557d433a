package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAreaMentioned is returned when a query names none of the known areas
	ErrNoAreaMentioned = errors.New("no known area mentioned")
	// ErrEmptySubset is returned when filtering leaves no rows for a requested area
	ErrEmptySubset = errors.New("no records for requested area and window")
	// ErrDivisionByZero is returned when a growth baseline is zero
	ErrDivisionByZero = errors.New("growth baseline is zero")
	// ErrMalformedResponse is returned when the generative summarizer reply cannot be used
	ErrMalformedResponse = errors.New("malformed summarizer response")
	// ErrNarratorDisabled is returned by a narrator that has no credentials
	ErrNarratorDisabled = errors.New("summarizer is not enabled")
)

// NoAreaError carries the vocabulary so the message can list valid areas
type NoAreaError struct {
	Areas []string
}

func (e *NoAreaError) Error() string {
	names := make([]string, len(e.Areas))
	for i, a := range e.Areas {
		names[i] = DisplayArea(a)
	}

	var list string
	switch len(names) {
	case 0:
		return "Please specify an area"
	case 1:
		list = names[0]
	case 2:
		list = names[0] + " or " + names[1]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
	return fmt.Sprintf("Please specify an area (%s)", list)
}

func (e *NoAreaError) Unwrap() error {
	return ErrNoAreaMentioned
}

// AreaDataError ties a data problem to the area it was found in
type AreaDataError struct {
	Area   string
	Metric string
	Err    error
}

func (e *AreaDataError) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("%s %s: %v", DisplayArea(e.Area), e.Metric, e.Err)
	}
	return fmt.Sprintf("%s: %v", DisplayArea(e.Area), e.Err)
}

func (e *AreaDataError) Unwrap() error {
	return e.Err
}
