package enums

import "fmt"

// Priority describes what the visitor optimizes for when choosing a contractor.
type Priority string

const (
	PriorityPrice   Priority = "price"
	PriorityBalance Priority = "balance"
	PriorityQuality Priority = "quality"
)

var validPriorities = []Priority{
	PriorityPrice,
	PriorityBalance,
	PriorityQuality,
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether the priority is recognized.
func (p Priority) IsValid() bool {
	for _, candidate := range validPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriority converts a raw string into a Priority.
func ParsePriority(value string) (Priority, error) {
	for _, candidate := range validPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q", value)
}
