package receipt

import (
	"errors"
	"testing"
)

func TestParse_PlainArray(t *testing.T) {
	raw := `[{"date":"2024-05-01","title":"Coffee","amount":450,"category":"食費","is_business":false,"location_from":null,"location_to":"Cafe X"}]`

	items, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	it := items[0]
	if it.Date != "2024-05-01" {
		t.Errorf("Date = %q, want 2024-05-01 (must stay a raw string)", it.Date)
	}
	if it.Title != "Coffee" || it.Amount != 450 {
		t.Errorf("Title/Amount = %q/%d, want Coffee/450", it.Title, it.Amount)
	}
	if it.Category != "食費" {
		t.Errorf("Category = %q, want raw label 食費", it.Category)
	}
	if it.LocationFrom != nil {
		t.Errorf("LocationFrom = %v, want nil", *it.LocationFrom)
	}
	if it.LocationTo == nil || *it.LocationTo != "Cafe X" {
		t.Errorf("LocationTo = %v, want Cafe X", it.LocationTo)
	}
}

func TestParse_StripsCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "json fence",
			raw:  " ```json\n[{\"date\":\"2024-05-01\",\"title\":\"Coffee\",\"amount\":450,\"category\":\"食費\",\"is_business\":false,\"location_from\":null,\"location_to\":\"Cafe X\"}]\n``` ",
		},
		{
			name: "bare fence",
			raw:  "```\n[{\"date\":\"2024-05-01\",\"title\":\"Coffee\",\"amount\":450,\"category\":\"食費\",\"is_business\":false,\"location_from\":null,\"location_to\":\"Cafe X\"}]\n```",
		},
		{
			name: "chatter around the array",
			raw:  "Here is the result:\n[{\"date\":\"2024-05-01\",\"title\":\"Coffee\",\"amount\":450,\"category\":\"食費\",\"is_business\":false,\"location_from\":null,\"location_to\":\"Cafe X\"}]\nLet me know if you need anything else.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(items) != 1 || items[0].Title != "Coffee" {
				t.Errorf("got %+v, want one Coffee item", items)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := Parse(raw); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyResponse", raw, err)
		}
	}
}

func TestParse_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not JSON", raw: "the receipt shows a coffee purchase"},
		{name: "object instead of array", raw: `{"date":"2024-05-01"}`},
		{name: "truncated array", raw: `[{"date":"2024-05-01","title":"Coffee"`},
		{name: "wrong element type", raw: `["just a string"]`},
		{name: "amount as string", raw: `[{"date":"2024-05-01","title":"Coffee","amount":"450","category":"食費","is_business":false}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Parse() error = %v, want *DecodeError", err)
			}
			if decodeErr.Raw != tt.raw {
				t.Errorf("DecodeError.Raw = %q, want the original text", decodeErr.Raw)
			}
		})
	}
}

func TestParse_EmptyArray(t *testing.T) {
	items, err := Parse("[]")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already clean", raw: `[1]`, want: `[1]`},
		{name: "surrounding whitespace", raw: "  [1]\n", want: `[1]`},
		{name: "json fence", raw: "```json\n[1]\n```", want: `[1]`},
		{name: "junk before and after", raw: "output: [1] done", want: `[1]`},
		{name: "fence without newline", raw: "```json [1]", want: "```json [1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
