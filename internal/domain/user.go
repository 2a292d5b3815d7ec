package domain

import (
	"strings"
	"time"
)

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserPlan enumerates billing plans. Free users are metered per day in
// session memory; the paid plans carry a persisted monthly allowance.
type UserPlan string

const (
	UserPlanFree    UserPlan = "free"
	UserPlanBasic   UserPlan = "basic"
	UserPlanPremium UserPlan = "premium"
	UserPlanPro     UserPlan = "pro"
)

// ParsePlan maps a stored plan string onto the closed plan enum. Unknown or
// empty values are treated as free, the most restrictive entitlement.
func ParsePlan(s string) UserPlan {
	switch UserPlan(strings.ToLower(strings.TrimSpace(s))) {
	case UserPlanBasic:
		return UserPlanBasic
	case UserPlanPremium:
		return UserPlanPremium
	case UserPlanPro:
		return UserPlanPro
	default:
		return UserPlanFree
	}
}

// User represents an authenticated learner account.
type User struct {
	ID        string
	Email     string
	Name      string
	Locale    string
	Role      UserRole
	Plan      UserPlan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether quota logic is bypassed entirely for this user.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasSubscription reports whether the user is on a paid monthly plan.
func (u User) HasSubscription() bool {
	switch u.Plan {
	case UserPlanBasic, UserPlanPremium, UserPlanPro:
		return true
	}
	return false
}
