// Package session owns the dashboard's authenticated identity and keeps it
// in step with the durable session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/pkg/metrics"
	fsmutil "github.com/autopeer-io/fleetview/internal/pkg/util/fsm"
	"github.com/autopeer-io/fleetview/pkg/log"
)

// Store keys. They are always written and removed together.
const (
	KeyToken = "authToken"
	KeyUser  = "authUser"
)

const (
	StateAnonymous     = "anonymous"
	StateAuthenticated = "authenticated"

	eventLogin   = "login"
	eventRestore = "restore"
	eventLogout  = "logout"
)

// Manager is the session lifecycle. It is safe for concurrent use.
type Manager struct {
	auth     core.Authenticator
	store    core.SessionStore
	verifier core.TokenVerifier

	// mu serializes lifecycle operations; currentMu guards reads of current.
	mu        sync.Mutex
	currentMu sync.RWMutex
	current   *model.Session

	machine *fsm.FSM
	logger  log.Logger
}

// restoreAttempt carries persisted values through the restore guard.
type restoreAttempt struct {
	token, user       string
	hasToken, hasUser bool
	readErr           error
	session           *model.Session
}

// Option customizes a Manager.
type Option func(*Manager)

// WithTokenVerifier makes Restore discard a session whose token the
// verifier rejects.
func WithTokenVerifier(v core.TokenVerifier) Option {
	return func(m *Manager) { m.verifier = v }
}

func NewManager(auth core.Authenticator, store core.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		auth:   auth,
		store:  store,
		logger: log.WithName("session"),
	}
	for _, o := range opts {
		o(m)
	}

	states := []string{StateAnonymous, StateAuthenticated}
	m.machine = fsm.NewFSM(StateAnonymous,
		fsm.Events{
			{Name: eventLogin, Src: states, Dst: StateAuthenticated},
			{Name: eventRestore, Src: states, Dst: StateAuthenticated},
			{Name: eventLogout, Src: states, Dst: StateAnonymous},
		},
		fsm.Callbacks{
			"before_" + eventRestore: fsmutil.Guard(m.guardRestore),

			"after_" + eventLogin:   fsmutil.WrapEvent(m.actionSetSession),
			"after_" + eventRestore: fsmutil.WrapEvent(m.actionSetSession),
			"after_" + eventLogout:  fsmutil.WrapEvent(m.actionClearSession),

			"enter_" + StateAuthenticated: func(context.Context, *fsm.Event) { metrics.SessionActive.Set(1) },
			"enter_" + StateAnonymous:     func(context.Context, *fsm.Event) { metrics.SessionActive.Set(0) },
		},
	)
	metrics.SessionActive.Set(0)
	return m
}

// Login authenticates and persists the session. On failure the current
// session, if any, is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.Session, error) {
	s, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			m.logger.Info("Login rejected", "email", email)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if !s.Valid() {
		return nil, fmt.Errorf("login failed: authenticator returned an incomplete session")
	}

	rawUser, err := json.Marshal(s.User)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetMany(ctx, map[string]string{
		KeyToken: s.Token,
		KeyUser:  string(rawUser),
	}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if err := m.fire(ctx, eventLogin, s); err != nil {
		return nil, err
	}

	m.logger.Info("Logged in", "user", s.User.ID, "role", s.User.Role)
	return clone(s), nil
}

// Logout clears the session in memory and in the store. It is idempotent.
// A store failure is returned after the in-memory session has been cleared.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fire(ctx, eventLogout); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	m.logger.Info("Logged out")
	return nil
}

// Restore rehydrates the session from the store and reports whether one
// was restored. Partial, unreadable or invalid state is cleared from the
// store and leaves no session. It never fails.
func (m *Manager) Restore(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt := m.read(ctx)

	err := m.fire(ctx, eventRestore, attempt)
	if err == nil {
		metrics.SessionRestores.WithLabelValues("restored").Inc()
		m.logger.Info("Restored session", "user", attempt.session.User.ID)
		return true
	}

	reason, canceled := fsmutil.CancelReason(err)
	if !canceled {
		reason = err
	}

	if errors.Is(reason, errNothingStored) {
		metrics.SessionRestores.WithLabelValues("empty").Inc()
	} else {
		metrics.SessionRestores.WithLabelValues("malformed").Inc()
		m.logger.Warn("Discarding persisted session", "reason", reason)
		if err := m.store.Delete(ctx, KeyToken, KeyUser); err != nil {
			m.logger.Error(err, "Failed to clear malformed session")
		}
	}

	// The store no longer holds a session, so neither may memory.
	if err := m.fire(ctx, eventLogout); err != nil {
		m.logger.Error(err, "Failed to reset session state")
	}
	return false
}

// Current returns a copy of the session, or nil.
func (m *Manager) Current() *model.Session {
	m.currentMu.RLock()
	defer m.currentMu.RUnlock()
	return clone(m.current)
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current() != nil
}

func (m *Manager) IsAdmin() bool {
	s := m.Current()
	return s != nil && s.User.IsAdmin()
}

// state is the lifecycle state name.
func (m *Manager) state() string {
	return m.machine.Current()
}

var errNothingStored = errors.New("no persisted session")

func (m *Manager) read(ctx context.Context) *restoreAttempt {
	a := &restoreAttempt{}

	var err error
	if a.token, a.hasToken, err = m.store.Get(ctx, KeyToken); err != nil {
		a.readErr = err
		return a
	}
	if a.user, a.hasUser, err = m.store.Get(ctx, KeyUser); err != nil {
		a.readErr = err
	}
	return a
}

func (m *Manager) guardRestore(_ context.Context, e *fsm.Event) error {
	a := e.Args[0].(*restoreAttempt)

	switch {
	case a.readErr != nil:
		return fmt.Errorf("%w: %v", core.ErrMalformedSession, a.readErr)
	case !a.hasToken && !a.hasUser:
		return errNothingStored
	case !a.hasToken || !a.hasUser:
		return fmt.Errorf("%w: only one of %s and %s is present", core.ErrMalformedSession, KeyToken, KeyUser)
	case a.token == "":
		return fmt.Errorf("%w: empty token", core.ErrMalformedSession)
	}

	var u model.User
	if err := json.Unmarshal([]byte(a.user), &u); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedSession, err)
	}
	if !u.Valid() {
		return fmt.Errorf("%w: user record is incomplete", core.ErrMalformedSession)
	}
	if m.verifier != nil {
		if err := m.verifier.VerifyToken(a.token, u); err != nil {
			return fmt.Errorf("%w: %v", core.ErrMalformedSession, err)
		}
	}

	a.session = &model.Session{User: u, Token: a.token}
	return nil
}

func (m *Manager) actionSetSession(_ context.Context, e *fsm.Event) error {
	var s *model.Session
	switch arg := e.Args[0].(type) {
	case *model.Session:
		s = arg
	case *restoreAttempt:
		s = arg.session
	default:
		return fmt.Errorf("unexpected %s argument %T", e.Event, arg)
	}

	m.currentMu.Lock()
	m.current = clone(s)
	m.currentMu.Unlock()
	return nil
}

func (m *Manager) actionClearSession(context.Context, *fsm.Event) error {
	m.currentMu.Lock()
	m.current = nil
	m.currentMu.Unlock()
	return nil
}

func (m *Manager) fire(ctx context.Context, event string, args ...any) error {
	return fsmutil.IgnoreNoTransition(m.machine.Event(ctx, event, args...))
}

func clone(s *model.Session) *model.Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
