package efipayrepo

import (
	"sync"
	"time"
)

// TokenCache holds one OAuth token per tenant. It is injected into the
// HTTP client so tests can drive expiry through the clock.
type TokenCache struct {
	mu     sync.Mutex
	tokens map[string]cachedToken
	now    func() time.Time
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// expiry slack so we never send a token about to die mid-request
const tokenSlack = 60 * time.Second

func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: map[string]cachedToken{}, now: time.Now}
}

// NewTokenCacheWithClock is for tests.
func NewTokenCacheWithClock(now func() time.Time) *TokenCache {
	return &TokenCache{tokens: map[string]cachedToken{}, now: now}
}

func (c *TokenCache) Get(tenantID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tokens[tenantID]
	if !ok || !c.now().Before(t.expiresAt) {
		return "", false
	}
	return t.value, true
}

func (c *TokenCache) Put(tenantID, token string, expiresIn time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[tenantID] = cachedToken{
		value:     token,
		expiresAt: c.now().Add(expiresIn - tokenSlack),
	}
}
