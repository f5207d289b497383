// Package tokenstore remembers revoked token ids until the token itself
// would have expired.
package tokenstore

import (
	"context"
	"time"
)

type Store interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
