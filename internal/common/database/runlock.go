// internal/common/database/runlock.go
package database

import (
	"context"
	"time"

	apperrors "flight-deals/internal/common/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock keeps two runs from walking the destination rows at the same time.
type RunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Lease is a held lock. Release it exactly once.
type Lease struct {
	lock  *RunLock
	token string
}

func NewRunLock(client *RedisClient, key string, ttl time.Duration) *RunLock {
	return &RunLock{client: client.Client, key: key, ttl: ttl}
}

// Acquire takes the lock or fails with RUN_LOCKED when another run holds it.
func (l *RunLock) Acquire(ctx context.Context) (*Lease, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, apperrors.NewRunLockFailedError(err)
	}
	if !ok {
		return nil, apperrors.NewRunLockedError(l.key)
	}
	return &Lease{lock: l, token: token}, nil
}

// Release reports whether the key was still ours.
func (ls *Lease) Release(ctx context.Context) (bool, error) {
	n, err := releaseScript.Run(ctx, ls.lock.client, []string{ls.lock.key}, ls.token).Int()
	if err != nil {
		return false, apperrors.NewRunLockFailedError(err)
	}
	return n == 1, nil
}
