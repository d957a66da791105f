package allocate

import (
	"errors"
	"sort"

	"github.com/osfund/osfund/internal/resolve"
)

// ErrEmptyProjectSet indicates an allocation over no eligible projects,
// either because none were supplied or because minimum-viable filtering
// removed them all.
var ErrEmptyProjectSet = errors.New("no eligible projects to allocate across")

// Entry is one line of an allocation plan.
type Entry struct {
	Key         resolve.ProjectKey
	DisplayName string
	// Amount in the budget's minor units.
	Amount int64
}

// Plan is a sum-exact distribution of a budget across projects. Entries keep
// the resolver's sort order.
type Plan struct {
	Budget    Budget
	Strategy  Strategy
	MinAmount int64
	Entries   []Entry
}

// Total returns the sum of all entry amounts. For any successful allocation
// it equals Budget.Amount.
func (p *Plan) Total() int64 {
	var total int64
	for _, e := range p.Entries {
		total += e.Amount
	}
	return total
}

// Allocate distributes budget across projects under the given strategy.
//
// Weights are consulted only by StrategyWeighted; the caller defines their
// semantics (package count, usage, anything non-negative). A zero total
// weight falls back to the equal strategy.
//
// Projects whose computed share falls below minAmount are removed and the
// allocation is recomputed from scratch over the survivors, repeating until
// no share is below the threshold. Recomputation (rather than additive
// redistribution) is what keeps the exact-sum invariant: a leftover from a
// removed project re-enters the apportionment instead of being sprinkled on
// top of already-rounded shares.
//
// A zero budget is valid and produces an empty plan. An empty project set,
// or one emptied by filtering, fails with ErrEmptyProjectSet.
func Allocate(projects []resolve.Project, budget Budget, strategy Strategy, weights map[resolve.ProjectKey]int64, minAmount int64) (*Plan, error) {
	if len(projects) == 0 {
		return nil, ErrEmptyProjectSet
	}

	plan := &Plan{Budget: budget, Strategy: strategy, MinAmount: minAmount}
	if budget.Amount == 0 {
		return plan, nil
	}

	eligible := projects
	for {
		amounts := apportion(eligible, budget.Amount, strategy, weights)

		var survivors []resolve.Project
		for i, project := range eligible {
			if amounts[i] >= minAmount {
				survivors = append(survivors, project)
			}
		}

		if len(survivors) == 0 {
			return nil, ErrEmptyProjectSet
		}
		if len(survivors) == len(eligible) {
			plan.Entries = make([]Entry, len(eligible))
			for i, project := range eligible {
				plan.Entries[i] = Entry{
					Key:         project.Key,
					DisplayName: project.DisplayName,
					Amount:      amounts[i],
				}
			}
			return plan, nil
		}

		eligible = survivors
	}
}

// apportion computes per-project shares summing exactly to amount. The
// projects slice is assumed to be in resolver sort order; that order is the
// documented tie-break for distributing remainder units.
func apportion(projects []resolve.Project, amount int64, strategy Strategy, weights map[resolve.ProjectKey]int64) []int64 {
	if strategy == StrategyWeighted {
		var totalWeight int64
		for _, project := range projects {
			if w := weights[project.Key]; w > 0 {
				totalWeight += w
			}
		}
		if totalWeight > 0 {
			return apportionWeighted(projects, amount, weights, totalWeight)
		}
		// All-zero weights degenerate to an even split.
	}
	return apportionEqual(len(projects), amount)
}

// apportionEqual implements the largest-remainder method for an even split:
// everyone gets the floor share, and the first (amount mod n) projects in
// sort order get one extra minor unit.
func apportionEqual(n int, amount int64) []int64 {
	base := amount / int64(n)
	remainder := amount % int64(n)

	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
		if int64(i) < remainder {
			amounts[i]++
		}
	}
	return amounts
}

// apportionWeighted gives each project floor(amount * weight / totalWeight)
// and hands the leftover units out one at a time by largest fractional
// remainder, ties broken by position (resolver sort order).
func apportionWeighted(projects []resolve.Project, amount int64, weights map[resolve.ProjectKey]int64, totalWeight int64) []int64 {
	n := len(projects)
	amounts := make([]int64, n)
	remainders := make([]int64, n)

	var distributed int64
	for i, project := range projects {
		w := weights[project.Key]
		if w < 0 {
			w = 0
		}
		amounts[i] = amount * w / totalWeight
		remainders[i] = amount * w % totalWeight
		distributed += amounts[i]
	}

	leftover := amount - distributed

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	for i := int64(0); i < leftover; i++ {
		amounts[order[i]]++
	}
	return amounts
}
