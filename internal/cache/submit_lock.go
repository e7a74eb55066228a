package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmitLock is a per-session guard shared by every API process. Submit
// holds it for the whole store call and edits hold it for their own
// load-save, so neither can overwrite the other. The lock expires on its
// own if the holder dies.
type SubmitLock interface {
	Acquire(ctx context.Context, sessionID, holder string) (bool, error)
	Release(ctx context.Context, sessionID, holder string) error
}

type submitLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubmitLock(client *redis.Client, ttl time.Duration) SubmitLock {
	return &submitLock{client: client, ttl: ttl}
}

func (l *submitLock) key(sessionID string) string {
	return fmt.Sprintf("session:%s:submit", sessionID)
}

func (l *submitLock) Acquire(ctx context.Context, sessionID, holder string) (bool, error) {
	return l.client.SetNX(ctx, l.key(sessionID), holder, l.ttl).Result()
}

// releaseScript deletes the key only if it still belongs to the caller
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *submitLock) Release(ctx context.Context, sessionID, holder string) error {
	return releaseScript.Run(ctx, l.client, []string{l.key(sessionID)}, holder).Err()
}
