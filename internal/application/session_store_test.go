package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type inMemorySessionRepo struct {
	mu        sync.Mutex
	session   *domain.Session
	saveErr   error
	deleteErr error
}

func (r *inMemorySessionRepo) Get(context.Context) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return *r.session, nil
}

func (r *inMemorySessionRepo) Save(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.session = &session
	return nil
}

func (r *inMemorySessionRepo) Delete(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.session = nil
	return nil
}

type credentialEvent struct {
	credential string
	ok         bool
}

func recordEvents(store *SessionStore) *[]credentialEvent {
	events := &[]credentialEvent{}
	store.Subscribe(func(credential string, ok bool) {
		*events = append(*events, credentialEvent{credential: credential, ok: ok})
	})
	return events
}

func TestSessionStoreLoadPublishesPersistedCredential(t *testing.T) {
	t.Parallel()

	repo := &inMemorySessionRepo{session: &domain.Session{Credential: "persisted"}}
	store := NewSessionStore(repo, nil, nil)
	events := recordEvents(store)

	require.NoError(t, store.Load(context.Background()))

	credential, ok := store.Credential()
	assert.True(t, ok)
	assert.Equal(t, "persisted", credential)
	assert.Equal(t, []credentialEvent{{credential: "persisted", ok: true}}, *events)
}

func TestSessionStoreLoadWithoutSessionPublishesNone(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	events := recordEvents(store)

	require.NoError(t, store.Load(context.Background()))

	_, ok := store.Credential()
	assert.False(t, ok)
	assert.Equal(t, []credentialEvent{{ok: false}}, *events)
}

func TestSessionStoreLoginPersistsAndPublishes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	repo := &inMemorySessionRepo{}
	store := NewSessionStore(repo, fixedClock{now: now}, nil)
	events := recordEvents(store)

	require.NoError(t, store.Login(context.Background(), "  token-1  "))

	persisted, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Credential: "token-1", SavedAt: now}, persisted)
	assert.Equal(t, []credentialEvent{{credential: "token-1", ok: true}}, *events)
}

func TestSessionStoreLoginRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	events := recordEvents(store)

	err := store.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyCredential)
	assert.Empty(t, *events)
}

func TestSessionStoreLoginKeepsStateWhenSaveFails(t *testing.T) {
	t.Parallel()

	repo := &inMemorySessionRepo{saveErr: errors.New("disk full")}
	store := NewSessionStore(repo, nil, nil)
	events := recordEvents(store)

	err := store.Login(context.Background(), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session: disk full")

	_, ok := store.Credential()
	assert.False(t, ok)
	assert.Empty(t, *events)
}

func TestSessionStoreLogoutErasesAndPublishesNone(t *testing.T) {
	t.Parallel()

	repo := &inMemorySessionRepo{session: &domain.Session{Credential: "token"}}
	store := NewSessionStore(repo, nil, nil)
	require.NoError(t, store.Load(context.Background()))
	events := recordEvents(store)

	require.NoError(t, store.Logout(context.Background()))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, ok := store.Credential()
	assert.False(t, ok)
	assert.Equal(t, []credentialEvent{{ok: false}}, *events)
}

func TestSessionStoreUnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	calls := 0
	unsubscribe := store.Subscribe(func(string, bool) { calls++ })

	require.NoError(t, store.Login(context.Background(), "a"))
	unsubscribe()
	require.NoError(t, store.Login(context.Background(), "b"))

	assert.Equal(t, 1, calls)
}

func TestSessionStoreListenersRunInRegistrationOrder(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	var order []string
	store.Subscribe(func(string, bool) { order = append(order, "first") })
	store.Subscribe(func(string, bool) { order = append(order, "second") })

	require.NoError(t, store.Login(context.Background(), "token"))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSessionStoreClaimsDecodeJWTPayload(t *testing.T) {
	t.Parallel()

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "NebuloViz",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:      42,
		Role:        "analyst",
		Permissions: []string{"view_predictions"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	require.NoError(t, store.Login(context.Background(), token))

	claims, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserLabel())
	assert.Equal(t, "analyst", claims.Role)
	assert.Equal(t, "NebuloViz", claims.Issuer)
	assert.True(t, expires.Equal(claims.Expiry()))
}

func TestSessionStoreClaimsReportOpaqueCredential(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	require.NoError(t, store.Login(context.Background(), "not-a-jwt"))

	_, err := store.Claims()
	assert.ErrorIs(t, err, ErrOpaqueCredential)
}

func TestSessionStoreStatusSummarizesToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "NebuloViz",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		},
		UserID:      3,
		Role:        "admin",
		Permissions: []string{"view_segments"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := NewSessionStore(&inMemorySessionRepo{}, fixedClock{now: issued}, nil)
	require.NoError(t, store.Login(context.Background(), token))

	status := store.Status()
	assert.True(t, status.SignedIn)
	assert.False(t, status.Opaque)
	assert.Equal(t, "3", status.User)
	assert.Equal(t, []string{"view_segments"}, status.Scopes)
	assert.True(t, issued.Equal(status.IssuedAt))
	assert.True(t, issued.Equal(status.SavedAt))
	assert.False(t, status.Expired(issued.Add(59*time.Minute)))
	assert.True(t, status.Expired(issued.Add(time.Hour)))
}

func TestSessionStoreStatusSignedOutAndOpaque(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&inMemorySessionRepo{}, nil, nil)
	assert.Equal(t, SessionStatus{}, store.Status())

	require.NoError(t, store.Login(context.Background(), "opaque"))
	status := store.Status()
	assert.True(t, status.SignedIn)
	assert.True(t, status.Opaque)
	assert.False(t, status.Expired(time.Now()))
}
