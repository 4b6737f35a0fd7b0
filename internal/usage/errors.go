package usage

import "errors"

// ErrLimitReached indicates the conditional increment found the counter at the limit.
var ErrLimitReached = errors.New("limit reached")
