package usage

import "time"

// DefaultFreeLimit is the number of metered operations a free user may run.
const DefaultFreeLimit = 10

// Account is a user's row in the quota ledger.
type Account struct {
	UserID    string    `json:"userId"`
	Plan      string    `json:"plan"`
	FreeUsage int       `json:"free_usage"`
	UpdatedAt time.Time `json:"updatedAt"`
}
