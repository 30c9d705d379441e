package types

import (
	"encoding/json"
	"fmt"
)

// MoneyRange is an inclusive [min, max] amount pair in whole currency units.
// It serializes as a two-element JSON array to match the public API shape.
type MoneyRange struct {
	Min int
	Max int
}

// Valid reports whether the range is ordered and non-negative.
func (r MoneyRange) Valid() bool {
	return r.Min >= 0 && r.Min <= r.Max
}

// Midpoint returns the arithmetic middle of the range.
func (r MoneyRange) Midpoint() int {
	return (r.Min + r.Max) / 2
}

// MarshalJSON encodes the range as [min, max].
func (r MoneyRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Min, r.Max})
}

// UnmarshalJSON decodes a [min, max] pair.
func (r *MoneyRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("money range: expected [min, max] pair: %w", err)
	}
	r.Min = pair[0]
	r.Max = pair[1]
	return nil
}
