package domain

import "time"

// UsageEventBaseAI marks a successful AI call debited against a subscriber's
// monthly base allowance. Top-up-funded usage never produces one of these;
// it is tracked solely through lot used counts.
const UsageEventBaseAI = "base_ai_usage"

// UsageEvent is an append-only record of one metered AI call.
type UsageEvent struct {
	ID         string
	UserID     string
	EventType  string
	Feature    FeatureType
	Properties []byte
	CreatedAt  time.Time
}

// UsageSummary reports a subscriber's month-to-date standing.
type UsageSummary struct {
	Count          int      `json:"count"`
	Limit          int      `json:"limit"`
	Remaining      int      `json:"remaining"`
	TopupBalance   int      `json:"topup_balance"`
	TotalRemaining int      `json:"total_remaining"`
	Warning        bool     `json:"warning"`
	Tier           UserPlan `json:"tier"`
}
