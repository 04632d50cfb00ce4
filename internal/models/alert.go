package models

// AlertState is the tri-valued safety signal derived from knife detections.
type AlertState int

const (
	AlertNone AlertState = iota
	AlertPossibleWeapon
	AlertHighConfidenceWeapon
)

// String returns a stable identifier used in logs, filenames and the API.
func (a AlertState) String() string {
	switch a {
	case AlertPossibleWeapon:
		return "possible_weapon"
	case AlertHighConfidenceWeapon:
		return "weapon"
	default:
		return "none"
	}
}

// Message returns the user-facing banner text for the alert state.
func (a AlertState) Message() string {
	switch a {
	case AlertHighConfidenceWeapon:
		return "Weapon detected! A knife was identified with high confidence."
	case AlertPossibleWeapon:
		return "Possible weapon detected. A knife-like object was identified with low confidence."
	default:
		return "No weapons detected."
	}
}

// ParseAlertState maps a stored identifier back to an AlertState.
// Unknown values fall back to AlertNone.
func ParseAlertState(s string) AlertState {
	switch s {
	case "possible_weapon":
		return AlertPossibleWeapon
	case "weapon":
		return AlertHighConfidenceWeapon
	default:
		return AlertNone
	}
}
