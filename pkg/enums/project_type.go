package enums

import "fmt"

// ProjectType identifies the renovation trade a visitor is asking about.
type ProjectType string

const (
	ProjectTypeRoof       ProjectType = "roof"
	ProjectTypeFacade     ProjectType = "facade"
	ProjectTypeInsulation ProjectType = "insulation"
	ProjectTypeSolar      ProjectType = "solar"
	ProjectTypeCombo      ProjectType = "combo"
)

var validProjectTypes = []ProjectType{
	ProjectTypeRoof,
	ProjectTypeFacade,
	ProjectTypeInsulation,
	ProjectTypeSolar,
	ProjectTypeCombo,
}

// String implements fmt.Stringer.
func (p ProjectType) String() string {
	return string(p)
}

// IsValid reports whether the project type is recognized.
func (p ProjectType) IsValid() bool {
	for _, candidate := range validProjectTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProjectType converts a raw string into a ProjectType.
func ParseProjectType(value string) (ProjectType, error) {
	for _, candidate := range validProjectTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid project type %q", value)
}
