package enums

import "fmt"

// BuildingType categorizes the dwelling being renovated.
type BuildingType string

const (
	BuildingTypeRow          BuildingType = "row"
	BuildingTypeSemiDetached BuildingType = "semi_detached"
	BuildingTypeDetached     BuildingType = "detached"
	BuildingTypeApartment    BuildingType = "apartment"
)

var validBuildingTypes = []BuildingType{
	BuildingTypeRow,
	BuildingTypeSemiDetached,
	BuildingTypeDetached,
	BuildingTypeApartment,
}

// String implements fmt.Stringer.
func (b BuildingType) String() string {
	return string(b)
}

// IsValid reports whether the building type is recognized.
func (b BuildingType) IsValid() bool {
	for _, candidate := range validBuildingTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBuildingType converts a raw string into a BuildingType.
func ParseBuildingType(value string) (BuildingType, error) {
	for _, candidate := range validBuildingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid building type %q", value)
}
