package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetview/internal/fleetview/auth"
	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/storage"
)

const adminJSON = `{"id":"1","email":"admin@fleet.com","role":"admin"}`

func localAuth(t *testing.T) core.Authenticator {
	t.Helper()
	accounts, err := auth.DefaultAccounts()
	require.NoError(t, err)
	return auth.NewLocal(accounts, auth.TokenConfig{Secret: []byte("k"), TTL: time.Hour})
}

// flakyStore wraps Memory and fails the selected operations.
type flakyStore struct {
	*storage.Memory
	failGet, failSet, failDelete bool
}

var errDisk = errors.New("disk unavailable")

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errDisk
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyStore) SetMany(ctx context.Context, entries map[string]string) error {
	if f.failSet {
		return errDisk
	}
	return f.Memory.SetMany(ctx, entries)
}

func (f *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if f.failDelete {
		return errDisk
	}
	return f.Memory.Delete(ctx, keys...)
}

func stored(t *testing.T, store core.SessionStore, key string) (string, bool) {
	t.Helper()
	v, ok, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func TestLoginPersistsBothKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := NewManager(localAuth(t), store)

	s, err := m.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, model.User{ID: "1", Email: "admin@fleet.com", Role: model.RoleAdmin}, s.User)
	assert.True(t, m.IsAuthenticated())
	assert.True(t, m.IsAdmin())
	assert.Equal(t, StateAuthenticated, m.state())

	token, ok := stored(t, store, KeyToken)
	assert.True(t, ok)
	assert.Equal(t, s.Token, token)

	user, ok := stored(t, store, KeyUser)
	assert.True(t, ok)
	assert.JSONEq(t, adminJSON, user)
}

func TestLoginAsUser(t *testing.T) {
	m := NewManager(localAuth(t), storage.NewMemory())

	s, err := m.Login(context.Background(), "user@fleet.com", "user123")
	require.NoError(t, err)
	assert.Equal(t, "2", s.User.ID)
	assert.True(t, m.IsAuthenticated())
	assert.False(t, m.IsAdmin())
}

func TestLoginInvalidCredentialsKeepsSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := NewManager(localAuth(t), store)

	_, err := m.Login(ctx, "user@fleet.com", "user123")
	require.NoError(t, err)
	before := m.Current()

	_, err = m.Login(ctx, "admin@fleet.com", "nope")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	assert.Equal(t, before, m.Current())

	user, _ := stored(t, store, KeyUser)
	assert.Contains(t, user, `"id":"2"`)
}

func TestLoginReplacesSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(localAuth(t), storage.NewMemory())

	_, err := m.Login(ctx, "user@fleet.com", "user123")
	require.NoError(t, err)
	_, err = m.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	assert.True(t, m.IsAdmin())
}

func TestLoginStoreFailureIsLoud(t *testing.T) {
	store := &flakyStore{Memory: storage.NewMemory(), failSet: true}
	m := NewManager(localAuth(t), store)

	_, err := m.Login(context.Background(), "admin@fleet.com", "admin123")
	assert.ErrorIs(t, err, errDisk)
	assert.False(t, m.IsAuthenticated(), "memory must not claim a session the store does not hold")
	assert.Equal(t, StateAnonymous, m.state())
}

func TestLoginAuthenticatorError(t *testing.T) {
	failing := core.AuthenticatorFunc(func(context.Context, string, string) (*model.Session, error) {
		return nil, errors.New("remote down")
	})
	m := NewManager(failing, storage.NewMemory())

	_, err := m.Login(context.Background(), "a", "b")
	assert.ErrorContains(t, err, "remote down")
	assert.NotErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := NewManager(localAuth(t), store)

	_, err := m.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	require.NoError(t, m.Logout(ctx))

	assert.Nil(t, m.Current())
	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.IsAdmin())
	_, ok := stored(t, store, KeyToken)
	assert.False(t, ok)
	_, ok = stored(t, store, KeyUser)
	assert.False(t, ok)
}

func TestLogoutStoreFailureStillClearsMemory(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Memory: storage.NewMemory()}
	m := NewManager(localAuth(t), store)

	_, err := m.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	store.failDelete = true
	assert.ErrorIs(t, m.Logout(ctx), errDisk)
	assert.False(t, m.IsAuthenticated())
}

func TestRestoreAfterRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	first := NewManager(localAuth(t), store)
	s, err := first.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	second := NewManager(localAuth(t), store)
	assert.True(t, second.Restore(ctx))
	assert.Equal(t, s, second.Current())
	assert.True(t, second.IsAdmin())
}

func TestLogoutThenRestoreFindsNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := NewManager(localAuth(t), store)

	_, err := m.Login(ctx, "user@fleet.com", "user123")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	fresh := NewManager(localAuth(t), store)
	assert.False(t, fresh.Restore(ctx))
	assert.Nil(t, fresh.Current())
}

func TestRestoreMatrix(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		want    bool
	}{
		{"both valid", map[string]string{KeyToken: "tok", KeyUser: adminJSON}, true},
		{"nothing stored", nil, false},
		{"token only", map[string]string{KeyToken: "tok"}, false},
		{"user only", map[string]string{KeyUser: adminJSON}, false},
		{"empty token", map[string]string{KeyToken: "", KeyUser: adminJSON}, false},
		{"user not json", map[string]string{KeyToken: "tok", KeyUser: "{oops"}, false},
		{"user missing email", map[string]string{KeyToken: "tok", KeyUser: `{"id":"1","role":"admin"}`}, false},
		{"unknown role", map[string]string{KeyToken: "tok", KeyUser: `{"id":"1","email":"a@b.c","role":"root"}`}, false},
		{"user is null", map[string]string{KeyToken: "tok", KeyUser: "null"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemory()
			require.NoError(t, store.SetMany(ctx, tt.entries))

			m := NewManager(localAuth(t), store)
			assert.Equal(t, tt.want, m.Restore(ctx))
			assert.Equal(t, tt.want, m.IsAuthenticated())

			if tt.want {
				assert.Equal(t, "tok", m.Current().Token)
				return
			}
			_, hasToken := stored(t, store, KeyToken)
			_, hasUser := stored(t, store, KeyUser)
			assert.False(t, hasToken, "malformed state is cleared")
			assert.False(t, hasUser, "malformed state is cleared")
		})
	}
}

func TestRestoreReadErrorLeavesNoSession(t *testing.T) {
	store := &flakyStore{Memory: storage.NewMemory(), failGet: true}
	m := NewManager(localAuth(t), store)

	assert.False(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
}

func TestRestoreResyncsWithStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := NewManager(localAuth(t), store)

	_, err := m.Login(ctx, "admin@fleet.com", "admin123")
	require.NoError(t, err)

	// Another process logs out.
	require.NoError(t, store.Delete(ctx, KeyToken, KeyUser))
	assert.False(t, m.Restore(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, StateAnonymous, m.state())

	// Another process logs in as a different user.
	require.NoError(t, store.SetMany(ctx, map[string]string{
		KeyToken: "other",
		KeyUser:  `{"id":"2","email":"user@fleet.com","role":"user"}`,
	}))
	assert.True(t, m.Restore(ctx))
	assert.Equal(t, "2", m.Current().User.ID)
	assert.True(t, m.Restore(ctx), "restoring twice is harmless")
}

func TestCurrentReturnsCopy(t *testing.T) {
	m := NewManager(localAuth(t), storage.NewMemory())
	_, err := m.Login(context.Background(), "admin@fleet.com", "admin123")
	require.NoError(t, err)

	s := m.Current()
	s.User.Role = model.RoleUser
	assert.True(t, m.IsAdmin())
}

func TestRestoreVerifiesLocalTokens(t *testing.T) {
	accounts, err := auth.DefaultAccounts()
	require.NoError(t, err)
	tokens := auth.TokenConfig{Secret: []byte("k"), TTL: time.Hour, Issuer: "fleetview"}
	expired := tokens
	expired.TTL = -time.Minute

	tests := []struct {
		name   string
		issuer *auth.Local
		user   string
		want   bool
	}{
		{"valid", auth.NewLocal(accounts, tokens), adminJSON, true},
		{"expired", auth.NewLocal(accounts, expired), adminJSON, false},
		{"other secret", auth.NewLocal(accounts, auth.TokenConfig{Secret: []byte("x"), TTL: time.Hour, Issuer: "fleetview"}), adminJSON, false},
		{"user record swapped", auth.NewLocal(accounts, tokens), `{"id":"2","email":"user@fleet.com","role":"admin"}`, false},
		{"foreign issuer is opaque", auth.NewLocal(accounts, auth.TokenConfig{Secret: []byte("x"), TTL: -time.Minute, Issuer: "sso"}), adminJSON, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemory()

			_, err := NewManager(tt.issuer, store).Login(ctx, "admin@fleet.com", "admin123")
			require.NoError(t, err)
			require.NoError(t, store.SetMany(ctx, map[string]string{KeyUser: tt.user}))

			m := NewManager(tt.issuer, store, WithTokenVerifier(auth.NewLocal(accounts, tokens)))
			assert.Equal(t, tt.want, m.Restore(ctx))
			assert.Equal(t, tt.want, m.IsAdmin())

			_, hasToken := stored(t, store, KeyToken)
			assert.Equal(t, tt.want, hasToken, "a rejected token is cleared from the store")
		})
	}
}

func TestRestoreAcceptsOpaqueTokens(t *testing.T) {
	accounts, err := auth.DefaultAccounts()
	require.NoError(t, err)
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.SetMany(ctx, map[string]string{KeyToken: "remote-session-id", KeyUser: adminJSON}))

	verifier := auth.NewLocal(accounts, auth.TokenConfig{Secret: []byte("k"), TTL: time.Hour, Issuer: "fleetview"})
	m := NewManager(localAuth(t), store, WithTokenVerifier(verifier))
	assert.True(t, m.Restore(ctx))
}
