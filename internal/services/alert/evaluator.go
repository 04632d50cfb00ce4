package alert

import (
	"strings"

	"visionguard/internal/models"
)

const weaponLabel = "knife"

// Evaluator derives the weapon alert state from the knife detector's raw
// (unfiltered) detection set. It uses two distinct thresholds so the
// low-confidence tier is actually reachable: a detection at or above the
// high threshold raises a full alert, one between the possible and high
// thresholds raises a possible-weapon warning.
type Evaluator struct {
	highThreshold     float64
	possibleThreshold float64
}

// NewEvaluator creates an Evaluator with the given thresholds.
func NewEvaluator(highThreshold, possibleThreshold float64) *Evaluator {
	return &Evaluator{
		highThreshold:     highThreshold,
		possibleThreshold: possibleThreshold,
	}
}

// Evaluate returns the alert state for one raw detection set.
// Label matching is case-insensitive. Short-circuits on the first
// high-confidence match.
func (e *Evaluator) Evaluate(raw []models.Detection) models.AlertState {
	for _, det := range raw {
		if isWeapon(det.Label) && det.Confidence >= e.highThreshold {
			return models.AlertHighConfidenceWeapon
		}
	}

	for _, det := range raw {
		if isWeapon(det.Label) && det.Confidence >= e.possibleThreshold {
			return models.AlertPossibleWeapon
		}
	}

	return models.AlertNone
}

func isWeapon(label string) bool {
	return strings.EqualFold(label, weaponLabel)
}
