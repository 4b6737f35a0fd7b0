package resumes

import "context"

// Repo persists resumes. Owner-scoped methods match on (id, user_id) and
// return ErrNotFound for rows owned by someone else.
type Repo interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	Get(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	GetPublic(ctx context.Context, id string) (Resume, error)
	// Replace overwrites the mutable fields of r. A positive expectedVersion
	// must match the stored version or ErrVersionConflict is returned.
	Replace(ctx context.Context, r Resume, expectedVersion int) (Resume, error)
	SetVisibility(ctx context.Context, userID, id string, public bool) (Resume, error)
	Delete(ctx context.Context, userID, id string) error
}
