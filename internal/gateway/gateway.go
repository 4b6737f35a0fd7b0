// Package gateway runs usage-metered operations: gate, invoke the provider,
// meter, then persist.
package gateway

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/events"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/telemetry"
	"quickai-backend/internal/usage"
)

// Gate selects the admission check for an operation.
type Gate int

const (
	// GateNone admits every authenticated principal and never meters.
	GateNone Gate = iota
	// GateMetered admits premium principals and free principals under the limit,
	// and meters free principals on success.
	GateMetered
	// GatePremium admits premium principals only.
	GatePremium
)

func (g Gate) String() string {
	switch g {
	case GateMetered:
		return "metered"
	case GatePremium:
		return "premium"
	default:
		return "none"
	}
}

const defaultUnavailableMessage = "Unable to generate content at the moment.! Please try again shortly."

// Operation names a gateway route and its admission rule.
type Operation struct {
	Name string
	Gate Gate
	// UnavailableMessage is returned with a 503 when the provider answers empty.
	UnavailableMessage string
}

// Quota is the part of the quota ledger the gateway drives.
type Quota interface {
	Check(p auth.Principal) error
	RequirePremium(p auth.Principal) error
	Increment(ctx context.Context, p auth.Principal) (usage.Account, bool, error)
	Refund(ctx context.Context, userID string) (usage.Account, error)
}

// Gateway holds the collaborators shared by every run.
type Gateway struct {
	Quota  Quota
	Events events.Publisher
}

// New constructs a Gateway. A nil publisher discards creation events.
func New(quota Quota, pub events.Publisher) *Gateway {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Gateway{Quota: quota, Events: pub}
}

// Run executes op for p. The result of invoke is discarded unless metering
// and persist both succeed; a failed persist refunds the metered unit.
func Run[T any](ctx context.Context, g *Gateway, p auth.Principal, op Operation, invoke func(context.Context) (T, error), persist func(context.Context, T) error) (result T, err error) {
	var zero T
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "gateway."+op.Name,
		attribute.String("gateway.operation", op.Name),
		attribute.String("gateway.gate", op.Gate.String()),
		attribute.String("user.plan", p.Plan),
	)
	defer func() {
		telemetry.EndSpan(span, err)
		outcome := "success"
		if err != nil {
			outcome = string(apperr.KindOf(err))
		}
		metrics.ObserveOperation(op.Name, outcome, time.Since(start))
		fields := map[string]any{
			"operation":   op.Name,
			"gate":        op.Gate.String(),
			"user_id":     p.UserID,
			"plan":        p.Plan,
			"outcome":     outcome,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  telemetry.RequestID(ctx),
		}
		if err != nil {
			fields["error"] = err
			telemetry.Warn("gateway.run", fields)
			return
		}
		telemetry.Info("gateway.run", fields)
	}()

	if err := g.admit(p, op.Gate); err != nil {
		return zero, err
	}

	out, err := invoke(ctx)
	if err != nil {
		return zero, providerError(op, err)
	}

	metered := false
	if op.Gate == GateMetered {
		if _, metered, err = g.Quota.Increment(ctx, p); err != nil {
			return zero, err
		}
	}

	if persist != nil {
		if err := persist(ctx, out); err != nil {
			if metered {
				if _, rerr := g.Quota.Refund(ctx, p.UserID); rerr != nil {
					telemetry.Error("gateway.refund_failed", map[string]any{
						"operation": op.Name,
						"user_id":   p.UserID,
						"error":     rerr,
					})
				}
			}
			return zero, err
		}
	}
	return out, nil
}

func (g *Gateway) admit(p auth.Principal, gate Gate) error {
	switch gate {
	case GateMetered:
		return g.Quota.Check(p)
	case GatePremium:
		return g.Quota.RequirePremium(p)
	default:
		return nil
	}
}

func providerError(op Operation, err error) error {
	if errors.Is(err, llm.ErrEmptyCompletion) {
		msg := op.UnavailableMessage
		if msg == "" {
			msg = defaultUnavailableMessage
		}
		return &apperr.Error{Kind: apperr.KindProviderUnavailable, Message: msg, Err: err}
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperr.Provider(err)
}

// RecordCreation returns a persist step that appends the creation built from
// the provider result and then announces it. Announce failures are only logged.
func (g *Gateway) RecordCreation(repo creations.Repo, build func(content string) creations.Creation) func(context.Context, string) error {
	return func(ctx context.Context, content string) error {
		c, err := repo.Append(ctx, build(content))
		if err != nil {
			return err
		}
		g.announce(ctx, c)
		return nil
	}
}

func (g *Gateway) announce(ctx context.Context, c creations.Creation) {
	evt := events.Event{
		Type:         events.TypeCreationCreated,
		CreationID:   c.ID,
		UserID:       c.UserID,
		CreationType: c.Type,
		Publish:      c.Publish,
		RequestID:    telemetry.RequestID(ctx),
		OccurredAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := g.Events.Publish(ctx, evt); err != nil {
		telemetry.Warn("gateway.publish_failed", map[string]any{
			"creation_id": c.ID,
			"user_id":     c.UserID,
			"error":       err,
		})
	}
}
