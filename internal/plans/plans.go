// Package plans maps subscription tiers to ordinal ranks for gating
// comparisons.
package plans

const (
	Free       = "free"
	Basic      = "basic"
	Pro        = "pro"
	Enterprise = "enterprise"
)

var ranks = map[string]int{
	Free:       0,
	Basic:      1,
	Pro:        2,
	Enterprise: 3,
}

// Rank returns the ordinal rank of a plan. Unknown plans rank as free.
func Rank(plan string) int {
	return ranks[plan]
}

// Allows reports whether a user on userPlan may access a route gated at
// requiredPlan.
func Allows(userPlan, requiredPlan string) bool {
	return Rank(userPlan) >= Rank(requiredPlan)
}

// Valid reports whether the plan name is a known tier.
func Valid(plan string) bool {
	_, ok := ranks[plan]
	return ok
}
