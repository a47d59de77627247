package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/twiller-app/authkit"
)

var _ Provider = (*Stub)(nil)

// A Stub is an in-memory Provider for tests and environments
// supporting service stubs.
type Stub struct {
	mu       sync.Mutex
	accounts map[string]string
	google   *Session
	current  *Session
	notify   func(*Session)
}

// NewStub constructs a Stub holding current as its active session,
// or no session when current is nil.
func NewStub(current *Session) *Stub {
	return &Stub{
		accounts: make(map[string]string),
		current:  current,
	}
}

// AddAccount seeds an email/password account.
func (s *Stub) AddAccount(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = password
}

// SetGoogleAccount scripts the result of the next SignInWithGoogle.
func (s *Stub) SetGoogleAccount(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.google = sess
}

// Emit pushes a session change from outside any action,
// simulating events like token expiry.
func (s *Stub) Emit(sess *Session) { s.set(sess) }

func (s *Stub) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	s.mu.Lock()
	pw, ok := s.accounts[email]
	s.mu.Unlock()

	if !ok || pw != password {
		return Session{}, fmt.Errorf("%w: %s", authkit.ErrInvalidCredentials, email)
	}

	sess := Session{Email: email, Token: "stub-token"}
	s.set(&sess)
	return sess, nil
}

func (s *Stub) CreateAccount(ctx context.Context, email, password string) (Session, error) {
	s.mu.Lock()
	if _, ok := s.accounts[email]; ok {
		s.mu.Unlock()
		return Session{}, fmt.Errorf("%w: %s", authkit.ErrAccountExists, email)
	}
	s.accounts[email] = password
	s.mu.Unlock()

	sess := Session{Email: email, Token: "stub-token"}
	s.set(&sess)
	return sess, nil
}

func (s *Stub) SignInWithGoogle(ctx context.Context) (Session, error) {
	s.mu.Lock()
	g := s.google
	s.mu.Unlock()

	if g == nil {
		return Session{}, fmt.Errorf("%w: google sign-in", authkit.ErrCancelled)
	}

	sess := *g
	s.set(&sess)
	return sess, nil
}

func (s *Stub) SignOut(ctx context.Context) error {
	s.set(nil)
	return nil
}

func (s *Stub) OnSessionChange(fn func(*Session)) Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notify = fn
	fn(s.current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.notify = nil
	}
}

func (s *Stub) set(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = sess
	if s.notify != nil {
		s.notify(sess)
	}
}
