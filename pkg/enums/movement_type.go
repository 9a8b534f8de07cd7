package enums

import "fmt"

// MovementType maps to the movement_type_enum enum in Postgres.
// "entrada" credits a clinic's stock, "saida" consumes from it.
type MovementType string

const (
	MovementTypeEntrada MovementType = "entrada"
	MovementTypeSaida   MovementType = "saida"
)

var validMovementTypes = []MovementType{
	MovementTypeEntrada,
	MovementTypeSaida,
}

// IsValid reports whether the value matches the canonical movement enum.
func (t MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
