package domain

import (
	"math"
	"time"
)

type MembershipPlan string

const (
	PlanBasic   MembershipPlan = "basic"
	PlanPremium MembershipPlan = "premium"
	PlanAIPlus  MembershipPlan = "ai-plus"
)

// ExpiringThresholdDays marks memberships that should show a renewal warning.
const ExpiringThresholdDays = 7

func (p MembershipPlan) Valid() bool {
	switch p {
	case PlanBasic, PlanPremium, PlanAIPlus:
		return true
	}
	return false
}

// HasPremiumAccess is the entitlement check used by every premium-gated feature.
func HasPremiumAccess(plan MembershipPlan) bool {
	return plan == PlanPremium || plan == PlanAIPlus
}

// HasPremiumAccess is false when there is no session user.
func (u *User) HasPremiumAccess() bool {
	if u == nil {
		return false
	}
	return HasPremiumAccess(u.MembershipPlan)
}

// PlanDisplayName returns the marketing name; unknown plans are returned as-is.
func PlanDisplayName(plan MembershipPlan) string {
	switch plan {
	case PlanBasic:
		return "Basic"
	case PlanPremium:
		return "Premium"
	case PlanAIPlus:
		return "AI Plus"
	}
	return string(plan)
}

// PlanFeatures lists what each plan unlocks, as shown on the membership page.
var PlanFeatures = map[MembershipPlan][]string{
	PlanBasic: {
		"QR code entry",
		"Basic progress tracking",
		"Mobile app",
		"Email support",
	},
	PlanPremium: {
		"Everything in Basic",
		"AI body analysis",
		"Personalised workout plans",
		"Detailed performance analysis",
		"Priority support",
	},
	PlanAIPlus: {
		"Everything in Premium",
		"AI nutrition coach",
		"Blood test analysis",
		"Personalised diet plans",
		"AI coaching support",
		"24/7 live support",
	},
}

// DaysUntilExpiry counts whole days left, truncated toward zero.
func (u *User) DaysUntilExpiry(now time.Time) int {
	return int(math.Trunc(u.MembershipExpiry.Sub(now).Hours() / 24))
}

func (u *User) IsExpiring(now time.Time) bool {
	return u.DaysUntilExpiry(now) <= ExpiringThresholdDays
}
