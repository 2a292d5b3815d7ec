// Package quota holds the numeric entitlement policy: how many AI calls each
// plan includes and where the warning threshold sits.
package quota

import "engmate/internal/domain"

// FreeDailyLimit is the number of free AI calls per feature per calendar day.
// Each feature (listening, speaking, reading, writing) has its own counter.
const FreeDailyLimit = 5

// BaseLimit returns the monthly base allowance included in a paid plan.
// Unrecognized paid tiers fall back to the premium allowance.
func BaseLimit(plan domain.UserPlan) int {
	switch plan {
	case domain.UserPlanBasic:
		return 300
	case domain.UserPlanPro:
		return 1200
	default:
		return 600
	}
}

// WarningThreshold is the usage level at which subscribers start seeing a
// "running low" notice, fixed at 80% of the base limit.
func WarningThreshold(plan domain.UserPlan) int {
	return BaseLimit(plan) * 4 / 5
}
