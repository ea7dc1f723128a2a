package model

import (
	"errors"
	"fmt"
)

// Subscription plans. Keep the switch in PlanDurationDays in sync: the
// compiler-checked enumeration is what makes adding a plan a deliberate act.
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

var ErrUnknownPlan = errors.New("formule d'abonnement inconnue")

// PlanDurationDays returns how many days of premium access a plan buys.
func PlanDurationDays(plan string) (int, error) {
	switch plan {
	case PlanMonthly:
		return 30, nil
	case PlanAnnual:
		return 365, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
}

// ValidPlan reports whether plan is one of the known plan identifiers.
func ValidPlan(plan string) bool {
	_, err := PlanDurationDays(plan)
	return err == nil
}
