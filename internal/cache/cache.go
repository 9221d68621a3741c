package cache

import (
	"sync"
	"time"

	"github.com/sisuapp/sisu/internal/domain/user"
)

// Cache is a TTL cache for sanitized user records, keyed by email. Entries
// are already password-stripped when they go in.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	u   user.User
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *Cache) Get(email string) (user.User, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[email]
	c.mu.RUnlock()
	if !ok {
		return user.User{}, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, email)
		c.mu.Unlock()
		return user.User{}, false
	}

	return e.u, true
}

func (c *Cache) Set(email string, u user.User) {
	c.mu.Lock()
	c.m[email] = entry{u: u, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(email string) {
	c.mu.Lock()
	delete(c.m, email)
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
