package auth

import (
	"sync"

	"github.com/idilsaglam/todoclient/internal/model"
)

// Store owns the process's session. It is created empty, changed only by
// SignIn and SignOut, and handed by pointer to whatever needs to read it.
// Nothing is persisted: a restart signs the user out.
type Store struct {
	mu      sync.RWMutex
	session model.Session
}

func NewStore() *Store { return &Store{} }

func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) Authenticated() bool { return s.Session().Authenticated() }

func (s *Store) Token() string { return s.Session().AccessToken }

// SignIn replaces the session and returns it. The update is visible to every
// reader by the time SignIn returns, so callers navigate afterwards.
func (s *Store) SignIn(username, name, token string) model.Session {
	next := model.Session{
		Username:    username,
		Name:        name,
		AccessToken: stripBearer(token),
	}
	next.ExpiresAt = Expiry(next.AccessToken)

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()
	return next
}

// SignOut clears the session and returns the one that was active.
func (s *Store) SignOut() model.Session {
	s.mu.Lock()
	prev := s.session
	s.session = model.Session{}
	s.mu.Unlock()
	return prev
}

// SignInWith is SignIn followed by onComplete.
func (s *Store) SignInWith(onComplete func(), username, name, token string) {
	s.SignIn(username, name, token)
	if onComplete != nil {
		onComplete()
	}
}

// SignOutWith is SignOut followed by onComplete.
func (s *Store) SignOutWith(onComplete func()) {
	s.SignOut()
	if onComplete != nil {
		onComplete()
	}
}
