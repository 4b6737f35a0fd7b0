package creations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repo persists creations.
type Repo interface {
	// Append assigns ID and CreatedAt when unset and stores c.
	Append(ctx context.Context, c Creation) (Creation, error)
	// ListByUser returns the user's creations, newest first.
	ListByUser(ctx context.Context, userID string) ([]Creation, error)
}

func prepare(c Creation, now time.Time) (Creation, error) {
	if strings.TrimSpace(c.UserID) == "" || !validType(c.Type) {
		return Creation{}, fmt.Errorf("%w: user and a known type are required", ErrInvalidInput)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
	return c, nil
}
