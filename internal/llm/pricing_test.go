package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
	}{
		{"gpt-4o-mini", true},
		{"claude-haiku-4-5-20251001", true},
		{"gpt-4o-2024-08-06", true},
		{"llama-3.3-70b-versatile", true},
		{"mock", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := LookupCost(tt.model); (got != nil) != tt.found {
				t.Fatalf("LookupCost(%q) = %v, want found=%v", tt.model, got, tt.found)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	got := c.Cost(2_000_000, 100_000)
	if math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("Cost = %v, want 2.5", got)
	}
}
