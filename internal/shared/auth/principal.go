package auth

import "strings"

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Principal is the request-scoped identity handed to every gateway operation.
type Principal struct {
	UserID    string `json:"userId"`
	Plan      string `json:"plan"`
	FreeUsage int    `json:"free_usage"`
}

// IsPremium reports whether the principal bypasses quota and passes plan gates.
func (p Principal) IsPremium() bool {
	return p.Plan == PlanPremium
}

// NormalizePlan maps anything other than premium to free.
func NormalizePlan(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), PlanPremium) {
		return PlanPremium
	}
	return PlanFree
}
