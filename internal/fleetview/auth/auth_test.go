package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

var testToken = TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "fleetview-test"}

func newLocal(t *testing.T) *Local {
	t.Helper()
	accounts, err := DefaultAccounts()
	require.NoError(t, err)
	return NewLocal(accounts, testToken)
}

func TestLocalCredentialTable(t *testing.T) {
	local := newLocal(t)

	tests := []struct {
		name, email, password string
		wantID                string
		wantRole              model.Role
		wantErr               error
	}{
		{"admin", "admin@fleet.com", "admin123", "1", model.RoleAdmin, nil},
		{"user", "user@fleet.com", "user123", "2", model.RoleUser, nil},
		{"email is case-insensitive", "Admin@Fleet.com", "admin123", "1", model.RoleAdmin, nil},
		{"wrong password", "admin@fleet.com", "user123", "", "", core.ErrInvalidCredentials},
		{"swapped pair", "user@fleet.com", "admin123", "", "", core.ErrInvalidCredentials},
		{"unknown email", "root@fleet.com", "admin123", "", "", core.ErrInvalidCredentials},
		{"empty", "", "", "", "", core.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := local.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, s.User.ID)
			assert.Equal(t, tt.wantRole, s.User.Role)
			assert.True(t, s.Valid())
		})
	}
}

func TestLocalTokenRoundTrip(t *testing.T) {
	local := newLocal(t)

	s, err := local.Authenticate(context.Background(), "user@fleet.com", "user123")
	require.NoError(t, err)

	claims, err := local.ParseToken(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.Subject)
	assert.Equal(t, "user@fleet.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "fleetview-test", claims.Issuer)

	other := NewLocal(nil, TokenConfig{Secret: []byte("other"), TTL: time.Hour})
	_, err = other.ParseToken(s.Token)
	assert.Error(t, err, "token signed with another secret must not validate")
}

func TestLocalExpiredToken(t *testing.T) {
	local := newLocal(t)
	local.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	s, err := local.Authenticate(context.Background(), "admin@fleet.com", "admin123")
	require.NoError(t, err)

	_, err = local.ParseToken(s.Token)
	assert.Error(t, err)
}

func loginServer(t *testing.T, handler http.HandlerFunc) *Remote {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemote(srv.URL+"/api/login", time.Second)
}

func TestRemoteSuccess(t *testing.T) {
	remote := loginServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ops@fleet.com", req.Email)
		assert.Equal(t, "s3cret", req.Password)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "remote-token",
			"user":  map[string]string{"id": "42", "email": "ops@fleet.com", "role": "admin"},
		})
	})

	s, err := remote.Authenticate(context.Background(), "ops@fleet.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "remote-token", s.Token)
	assert.Equal(t, model.User{ID: "42", Email: "ops@fleet.com", Role: model.RoleAdmin}, s.User)
}

func TestRemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, core.ErrInvalidCredentials},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, nil},
		{"not json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}, nil},
		{"missing token", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"id":"1","email":"a@b.c","role":"admin"}}`))
		}, nil},
		{"bad role", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"token":"t","user":{"id":"1","email":"a@b.c","role":"root"}}`))
		}, nil},
		{"missing user", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"token":"t"}`))
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := loginServer(t, tt.handler).Authenticate(context.Background(), "a@b.c", "pw")
			require.Error(t, err)
			assert.Nil(t, s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { <-release }))
	t.Cleanup(func() { close(release); srv.Close() })

	remote := NewRemote(srv.URL, 50*time.Millisecond)
	_, err := remote.Authenticate(context.Background(), "a@b.c", "pw")
	assert.Error(t, err)
}

func TestRemoteWithoutEndpoint(t *testing.T) {
	_, err := NewRemote("", time.Second).Authenticate(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestFallbackOnAnyPrimaryError(t *testing.T) {
	local := newLocal(t)

	for name, primaryErr := range map[string]error{
		"transport": errors.New("connection refused"),
		"rejected":  core.ErrInvalidCredentials,
	} {
		t.Run(name, func(t *testing.T) {
			primary := core.AuthenticatorFunc(func(context.Context, string, string) (*model.Session, error) {
				return nil, primaryErr
			})

			s, err := NewFallback(primary, local).Authenticate(context.Background(), "admin@fleet.com", "admin123")
			require.NoError(t, err)
			assert.Equal(t, "1", s.User.ID)
			assert.Equal(t, model.RoleAdmin, s.User.Role)
		})
	}
}

func TestFallbackPrefersPrimary(t *testing.T) {
	want := &model.Session{Token: "remote", User: model.User{ID: "9", Email: "x@y.z", Role: model.RoleUser}}
	primary := core.AuthenticatorFunc(func(context.Context, string, string) (*model.Session, error) {
		return want, nil
	})
	secondary := core.AuthenticatorFunc(func(context.Context, string, string) (*model.Session, error) {
		t.Fatal("secondary must not be consulted")
		return nil, nil
	})

	got, err := NewFallback(primary, secondary).Authenticate(context.Background(), "x@y.z", "pw")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFallbackBothFail(t *testing.T) {
	primary := core.AuthenticatorFunc(func(context.Context, string, string) (*model.Session, error) {
		return nil, errors.New("offline")
	})

	_, err := NewFallback(primary, newLocal(t)).Authenticate(context.Background(), "admin@fleet.com", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}
