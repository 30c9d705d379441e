package enums

import "fmt"

// LeadStatus tracks a lead through the back-office outreach lifecycle.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusForwarded LeadStatus = "forwarded"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusForwarded,
	LeadStatusContacted,
	LeadStatusWon,
	LeadStatusLost,
}

// leadStatusTransitions describes the allowed forward-only lifecycle:
// new -> forwarded -> contacted -> won|lost.
var leadStatusTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:       {LeadStatusForwarded},
	LeadStatusForwarded: {LeadStatusContacted},
	LeadStatusContacted: {LeadStatusWon, LeadStatusLost},
	LeadStatusWon:       {},
	LeadStatusLost:      {},
}

// String implements fmt.Stringer.
func (s LeadStatus) String() string {
	return string(s)
}

// IsValid reports whether the lead status is recognized.
func (s LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	for _, candidate := range leadStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no further transitions.
func (s LeadStatus) IsTerminal() bool {
	return len(leadStatusTransitions[s]) == 0 && s.IsValid()
}

// ParseLeadStatus converts a raw string into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
