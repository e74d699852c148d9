// Package receipt parses the output of the generative model that reads
// receipt images. The model is asked for a strict JSON array, but its output
// is treated as untrusted: Markdown fences and stray text around the array
// get stripped before decoding, and any remaining defect fails the whole
// batch rather than risking partially decoded records.
package receipt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsedItem is the decode target for one element of the model's JSON array.
// Date and Category are raw strings on purpose: nothing is normalized here
// so the user can see and edit the model's output before commit forces it
// into canonical form.
type ParsedItem struct {
	Date         string  `json:"date"` // expected "YYYY-MM-DD", unvalidated
	Title        string  `json:"title"`
	Amount       int     `json:"amount"`
	Category     string  `json:"category"` // label, unvalidated
	IsBusiness   bool    `json:"is_business"`
	LocationFrom *string `json:"location_from"`
	LocationTo   *string `json:"location_to"`
}

// Parse decodes raw model text into parsed items. It returns
// ErrEmptyResponse when the text is empty and a *DecodeError when the
// cleaned text is not a valid JSON array of the expected shape. The batch is
// all-or-nothing: a malformed array yields no items.
func Parse(rawText string) ([]ParsedItem, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyResponse
	}

	clean := cleanModelJSON(rawText)

	dec := json.NewDecoder(strings.NewReader(clean))
	var items []ParsedItem
	if err := dec.Decode(&items); err != nil {
		return nil, &DecodeError{Raw: rawText, Err: err}
	}
	if dec.More() {
		return nil, &DecodeError{Raw: rawText, Err: fmt.Errorf("trailing data after JSON array")}
	}

	return items, nil
}

// cleanModelJSON strips the wrappers the model sometimes emits despite being
// told not to: ```json fences, and stray text around the array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there is still junk around the JSON array, keep only the span from
	// the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
