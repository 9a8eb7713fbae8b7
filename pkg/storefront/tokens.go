package storefront

import (
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/souqly/storefront-go/internal/auth"
)

// TokenStore is the durable slot holding the bearer token. Load returns ""
// when no token is stored.
type TokenStore = auth.TokenStore

// NewMemoryTokenStore keeps the token for the lifetime of the process
func NewMemoryTokenStore(token string) TokenStore {
	return auth.NewMemoryStore(token)
}

// NewFileTokenStore persists the token in a 0600 JSON file; an empty slot
// name uses the default slot
func NewFileTokenStore(path, slot string, clock clockwork.Clock, logger Logger) TokenStore {
	return auth.NewFileStore(path, slot, clock, logger)
}

// NewRedisTokenStore keeps the token in Redis so several processes share one login
func NewRedisTokenStore(rdb *redis.Client, slot string) TokenStore {
	return auth.NewRedisStore(rdb, slot)
}
