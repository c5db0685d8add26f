package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklist remembers revoked token ids until the token would have expired
// anyway. Entries live in process memory, so a restart forgets revocations.
type TokenBlocklist struct {
	cache *cache.Cache
}

func NewTokenBlocklist() *TokenBlocklist {
	// Nothing lives past the refresh TTL; purge every 10 minutes.
	c := cache.New(7*24*time.Hour, 10*time.Minute)
	return &TokenBlocklist{
		cache: c,
	}
}

// Revoke blocks jti until expiresAt. Tokens that already expired are ignored.
func (b *TokenBlocklist) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	b.cache.Set(jti, struct{}{}, ttl)
}

func (b *TokenBlocklist) IsRevoked(jti string) bool {
	_, found := b.cache.Get(jti)
	return found
}

func (b *TokenBlocklist) Len() int {
	return b.cache.ItemCount()
}
