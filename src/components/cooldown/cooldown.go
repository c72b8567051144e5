// Package cooldown enforces per-user submission cooldowns against Redis.
//
// The check-and-reserve step is a single SET NX with TTL so that
// concurrent submissions from the same user race through Redis, not
// through in-process locks, and exactly one wins even when the bot runs
// as multiple processes sharing one store.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable reports that Redis could not answer in time. It is
// never collapsed into an allow or a deny: callers fail the request.
var ErrStoreUnavailable = errors.New("cooldown store unavailable")

const defaultTimeout = 5 * time.Second

// Status is the outcome of a reservation attempt.
type Status struct {
	Allowed   bool
	Remaining time.Duration
}

type Enforcer struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewEnforcer(rdb *redis.Client) *Enforcer {
	return &Enforcer{rdb: rdb, timeout: defaultTimeout}
}

func key(formUUID, userID string) string {
	return fmt.Sprintf("forms:cooldown:%s:%s", formUUID, userID)
}

// Check returns the remaining cooldown for the user, zero when clear.
// It performs no writes.
func (e *Enforcer) Check(ctx context.Context, formUUID, userID string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rem, err := e.rdb.PTTL(ctx, key(formUUID, userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rem <= 0 {
		// -2 no key, -1 no expiry; both mean no active cooldown.
		return 0, nil
	}
	return rem, nil
}

// CheckAndReserve atomically starts the cooldown when none is active.
// A zero duration is a no-op that always allows and never writes.
func (e *Enforcer) CheckAndReserve(ctx context.Context, formUUID, userID string, d time.Duration) (Status, error) {
	if d <= 0 {
		return Status{Allowed: true}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	k := key(formUUID, userID)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := e.rdb.SetNX(ctx, k, "1", d).Result()
		if err != nil {
			return Status{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if ok {
			return Status{Allowed: true}, nil
		}

		rem, err := e.rdb.PTTL(ctx, k).Result()
		if err != nil {
			return Status{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if rem > 0 {
			return Status{Remaining: rem}, nil
		}
		// Key expired between the two calls; retry the reservation once.
	}

	// Two lost races in a row means the store is answering inconsistently.
	// Fail closed rather than invent an allow or a deny.
	return Status{}, fmt.Errorf("%w: reservation could not be settled", ErrStoreUnavailable)
}

// Clear removes an active cooldown and reports whether one existed.
func (e *Enforcer) Clear(ctx context.Context, formUUID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	n, err := e.rdb.Del(ctx, key(formUUID, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
