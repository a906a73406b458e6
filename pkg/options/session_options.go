package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

var _ IOptions = (*SessionOptions)(nil)

// SessionOptions selects where the authToken/authUser pair is kept.
type SessionOptions struct {
	Backend string `json:"backend" mapstructure:"backend"`

	// Path is the SQLite database file used by the sqlite backend.
	Path string `json:"path" mapstructure:"path"`

	// Watch re-reads the stored session when the SQLite file changes on disk.
	Watch bool `json:"watch" mapstructure:"watch"`
}

func NewSessionOptions() *SessionOptions {
	return &SessionOptions{
		Backend: SessionBackendSQLite,
		Path:    defaultSessionPath(),
		Watch:   true,
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fleetview", "session.db")
}

func (o *SessionOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}
	switch o.Backend {
	case SessionBackendSQLite:
		if o.Path == "" {
			errs = append(errs, fmt.Errorf("--session.path is required for the %s backend", o.Backend))
		}
	case SessionBackendRedis, SessionBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", o.Backend))
	}
	return errs
}

func (o *SessionOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Backend, "session.backend", o.Backend, "Session store backend: sqlite, redis or memory.")
	fs.StringVar(&o.Path, "session.path", o.Path, "SQLite file holding the persisted session.")
	fs.BoolVar(&o.Watch, "session.watch", o.Watch, "Reload the session when the store file changes (serve only).")
}
