package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"go.uber.org/zap"
)

// SessionListener receives the credential after every change. ok is false when
// the session was cleared.
type SessionListener func(credential string, ok bool)

type SessionStore struct {
	repo   ports.SessionRepository
	clock  ports.Clock
	logger *zap.Logger

	mu      sync.RWMutex
	current domain.Session

	listenersMu sync.Mutex
	listeners   []listenerEntry
	nextID      int
}

type listenerEntry struct {
	id int
	fn SessionListener
}

var _ ports.CredentialSource = (*SessionStore)(nil)

func NewSessionStore(repo ports.SessionRepository, clock ports.Clock, logger *zap.Logger) *SessionStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionStore{repo: repo, clock: clock, logger: logger.Named("session")}
}

// Load hydrates the credential from durable storage. A missing session is not an
// error; subscribers are told there is no credential.
func (s *SessionStore) Load(ctx context.Context) error {
	session, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("load session: %w", err)
		}
		session = domain.Session{}
	}

	s.set(session)
	s.logger.Debug("session loaded", zap.Bool("signed_in", session.HasCredential()))
	return nil
}

func (s *SessionStore) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrEmptyCredential
	}

	session := domain.Session{Credential: token, SavedAt: s.clock.Now()}
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.set(session)
	s.logger.Info("signed in")
	return nil
}

func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.set(domain.Session{})
	s.logger.Info("signed out")
	return nil
}

func (s *SessionStore) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.HasCredential() {
		return "", false
	}
	return s.current.Credential, true
}

func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Subscribe registers fn for change notifications. Listeners run synchronously on
// the goroutine that changed the session, in registration order.
func (s *SessionStore) Subscribe(fn SessionListener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()

		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *SessionStore) set(session domain.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.listenersMu.Lock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()

	credential, ok := session.Credential, session.HasCredential()
	for _, entry := range listeners {
		entry.fn(credential, ok)
	}
}
