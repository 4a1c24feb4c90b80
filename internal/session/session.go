package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// CookieName is the cookie carrying the opaque session token.
const CookieName = "session_token"

// Session is the server-side state bound to one token. User and admin
// logins produce separate sessions; an admin session carries no user hash.
type Session struct {
	UserHash string
	UserName string

	Admin     bool
	AdminUser string
}

// Store keeps sessions in an expiring in-memory cache. Sessions are not
// persisted: a process restart logs everyone out.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore creates a session store whose sessions expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores sess under a fresh opaque token and returns the token.
func (s *Store) Create(sess Session) string {
	token := uuid.NewString()
	s.cache.Set(token, sess, gocache.DefaultExpiration)
	return token
}

// Get resolves a token to its session.
func (s *Store) Get(token string) (Session, bool) {
	v, ok := s.cache.Get(token)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

// Delete invalidates a token. Unknown tokens are ignored.
func (s *Store) Delete(token string) {
	s.cache.Delete(token)
}
