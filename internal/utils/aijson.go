package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no decodable JSON value can be found in model output
var ErrNoJSON = errors.New("no JSON found in model output")

var (
	fencedBlockPattern   = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// DecodeAIJSON decodes a JSON value out of generative-model output. It accepts
// a bare value, a value inside a markdown fence, or one embedded in prose,
// and repairs trailing commas and unquoted keys before giving up.
func DecodeAIJSON(input string, target any) error {
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return fmt.Errorf("%w: empty output", ErrNoJSON)
	}

	for _, candidate := range candidates(input) {
		if candidate == "" {
			continue
		}
		if json.Unmarshal([]byte(candidate), target) == nil {
			return nil
		}
		if json.Unmarshal([]byte(repair(candidate)), target) == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrNoJSON, Truncate(input, 100))
}

// candidates lists the substrings worth decoding, most specific first
func candidates(input string) []string {
	out := []string{input}
	if m := fencedBlockPattern.FindStringSubmatch(input); len(m) > 1 {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if start := strings.IndexAny(input, "{["); start >= 0 {
		open := rune(input[start])
		close := '}'
		if open == '[' {
			close = ']'
		}
		out = append(out, BalancedSpan(input[start:], open, close))
	}
	return out
}

func repair(s string) string {
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2"$3`)
	return controlCharPattern.ReplaceAllString(s, "")
}

// BalancedSpan returns the prefix of input from its first open rune up to the
// matching close rune, ignoring delimiters inside string literals. It returns
// "" when the span never closes.
func BalancedSpan(input string, open, close rune) string {
	depth := 0
	start := -1
	inString := false
	escape := false

	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close && depth > 0:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

// Truncate shortens s to at most maxLen bytes, marking the cut
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
