package enums

import "fmt"

// Urgency captures the visitor's intended project timeline.
type Urgency string

const (
	UrgencyOneToThreeMonths  Urgency = "1-3m"
	UrgencyThreeToSixMonths  Urgency = "3-6m"
	UrgencySixToTwelveMonths Urgency = "6-12m"
	UrgencyExploring         Urgency = "exploring"
)

var validUrgencies = []Urgency{
	UrgencyOneToThreeMonths,
	UrgencyThreeToSixMonths,
	UrgencySixToTwelveMonths,
	UrgencyExploring,
}

// String implements fmt.Stringer.
func (u Urgency) String() string {
	return string(u)
}

// IsValid reports whether the urgency is recognized.
func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUrgency converts a raw string into an Urgency.
func ParseUrgency(value string) (Urgency, error) {
	for _, candidate := range validUrgencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}
