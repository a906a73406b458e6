// Package auth turns credentials into dashboard sessions.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// ErrNoEndpoint is returned by a Remote without an endpoint.
var ErrNoEndpoint = errors.New("no remote login endpoint configured")

// maxResponseBytes caps how much of a login response is read.
const maxResponseBytes = 1 << 20

var _ core.Authenticator = (*Remote)(nil)

// Remote authenticates against an HTTP login endpoint.
//
// The request is a JSON POST of {"email","password"}. A 2xx response
// carrying a non-empty token and a well-formed user is a success; every
// other outcome is an error.
type Remote struct {
	endpoint string
	client   *http.Client
}

func NewRemote(endpoint string, timeout time.Duration) *Remote {
	return &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (r *Remote) Authenticate(ctx context.Context, email, password string) (s *model.Session, err error) {
	defer func() { observe(sourceRemote, err) }()

	if r.endpoint == "" {
		return nil, ErrNoEndpoint
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("login rejected with status %d: %w", resp.StatusCode, core.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	session := &model.Session{Token: out.Token}
	if out.User != nil {
		session.User = *out.User
	}
	if !session.Valid() {
		return nil, errors.New("login response is missing a token or a well-formed user")
	}
	return session, nil
}
