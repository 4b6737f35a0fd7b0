package usage

import (
	"context"
	"errors"
	"strings"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/metrics"
)

// Store persists quota accounts. IncrementIfBelow must be a single atomic
// compare-and-increment at the storage layer.
type Store interface {
	Ensure(ctx context.Context, userID, plan string) (Account, error)
	Get(ctx context.Context, userID string) (Account, error)
	IncrementIfBelow(ctx context.Context, userID string, limit int) (Account, error)
	Refund(ctx context.Context, userID string) (Account, error)
	Reset(ctx context.Context, userID string) (Account, error)
}

// Service is the quota ledger: it gates metered and premium-only operations
// and meters successful ones.
type Service struct {
	store Store
	limit int
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return NewServiceWithStore(newMemoryStore(), DefaultFreeLimit)
}

// NewServiceWithStore constructs a Service over store. A non-positive limit uses DefaultFreeLimit.
func NewServiceWithStore(store Store, limit int) *Service {
	if limit <= 0 {
		limit = DefaultFreeLimit
	}
	return &Service{store: store, limit: limit}
}

// Limit returns the free-tier limit.
func (s *Service) Limit() int {
	return s.limit
}

// Resolve syncs the token's plan into the ledger and returns the request principal.
func (s *Service) Resolve(ctx context.Context, userID, plan string) (auth.Principal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return auth.Principal{}, apperr.Unauthorized()
	}
	acct, err := s.store.Ensure(ctx, userID, auth.NormalizePlan(plan))
	if err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{UserID: acct.UserID, Plan: acct.Plan, FreeUsage: acct.FreeUsage}, nil
}

// Get returns the account for userID.
func (s *Service) Get(ctx context.Context, userID string) (Account, error) {
	return s.store.Get(ctx, userID)
}

// Check denies a non-premium principal whose counter has reached the limit.
func (s *Service) Check(p auth.Principal) error {
	if p.IsPremium() {
		return nil
	}
	if p.FreeUsage >= s.limit {
		metrics.IncQuotaDenied(string(apperr.KindQuotaExceeded))
		return apperr.QuotaExceeded()
	}
	return nil
}

// RequirePremium denies any principal that is not on the premium plan.
func (s *Service) RequirePremium(p auth.Principal) error {
	if p.IsPremium() {
		return nil
	}
	metrics.IncQuotaDenied(string(apperr.KindPlanRequired))
	return apperr.PlanRequired()
}

// Increment meters one successful operation. Premium principals are not metered.
// Losing a race at the limit yields a QuotaExceeded error and leaves the counter unchanged.
func (s *Service) Increment(ctx context.Context, p auth.Principal) (Account, bool, error) {
	if p.IsPremium() {
		return Account{UserID: p.UserID, Plan: p.Plan, FreeUsage: p.FreeUsage}, false, nil
	}
	acct, err := s.store.IncrementIfBelow(ctx, p.UserID, s.limit)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			metrics.IncQuotaDenied(string(apperr.KindQuotaExceeded))
			return Account{}, false, &apperr.Error{Kind: apperr.KindQuotaExceeded, Message: apperr.MsgQuotaExceeded, Err: err}
		}
		return Account{}, false, err
	}
	return acct, true, nil
}

// Refund reverses an Increment whose operation then failed to persist.
func (s *Service) Refund(ctx context.Context, userID string) (Account, error) {
	return s.store.Refund(ctx, userID)
}

// Reset sets the counter to zero.
func (s *Service) Reset(ctx context.Context, userID string) (Account, error) {
	return s.store.Reset(ctx, userID)
}
