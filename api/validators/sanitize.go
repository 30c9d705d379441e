package validators

import "strings"

// SanitizeString trims surrounding whitespace and hard-caps the length of
// free-text form fields before they reach the services.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
