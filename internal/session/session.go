package session

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Store holds admin session tokens in memory. Tokens do not expire and are
// lost on restart.
type Store struct {
	cache *gocache.Cache
}

// New creates an empty Store.
func New() *Store {
	return &Store{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Create issues a new session token.
func (s *Store) Create() string {
	token := uuid.NewString()
	s.cache.Set(token, struct{}{}, gocache.NoExpiration)
	log.Debug("Admin session created", "sessions", s.cache.ItemCount())
	return token
}

// Valid reports whether token was issued by this store.
func (s *Store) Valid(token string) bool {
	if token == "" {
		return false
	}
	_, ok := s.cache.Get(token)
	return ok
}

// Revoke forgets a token.
func (s *Store) Revoke(token string) {
	s.cache.Delete(token)
}
