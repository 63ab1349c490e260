// Package lock serializes mutations of a single tournament. Waits are always bounded: a caller that
// cannot get the lock in time gets ErrTimeout instead of blocking forever.
package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrTimeout = errors.New("timed out waiting for tournament lock")

// Unlock releases a held lock. Calling it more than once is safe.
type Unlock func()

type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

func TournamentKey(id uuid.UUID) string {
	return fmt.Sprintf("tournament:%s", id)
}
