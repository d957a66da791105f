// Package allocate distributes a donation budget across upstream projects.
//
// All arithmetic happens in integer minor currency units (cents). Shares are
// apportioned with the largest-remainder method so every plan sums exactly
// to the budget; floating point never touches an amount.
package allocate

import "fmt"

// Cadence is the recurrence period of a budget. It is informational: the
// allocator never converts between cadences, and every entry in one plan
// shares the budget's cadence.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// ParseCadence validates a cadence string.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceMonthly, CadenceYearly:
		return Cadence(s), nil
	default:
		return "", fmt.Errorf("unknown cadence %q (expected monthly or yearly)", s)
	}
}

// Strategy selects how a budget is divided across projects.
type Strategy string

const (
	// StrategyEqual splits the budget as evenly as possible.
	StrategyEqual Strategy = "equal"
	// StrategyWeighted splits the budget proportionally to caller-supplied
	// per-project weights.
	StrategyWeighted Strategy = "weighted"
)

// ParseStrategy validates a strategy string.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEqual, StrategyWeighted:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (expected equal or weighted)", s)
	}
}

// Budget is the user's giving intent for one period.
type Budget struct {
	// Amount in minor currency units (cents). Never negative.
	Amount int64
	// Currency is an ISO-style code, opaque to the allocator. No conversion
	// is ever performed.
	Currency string
	// Cadence of the recurring budget.
	Cadence Cadence
}
