package options

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*AuthOptions)(nil)

// AuthOptions configures the login chain.
type AuthOptions struct {
	// Endpoint is the remote login URL. Empty means local credentials only.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// OfflineFallback lets the built-in accounts answer when the remote call fails for any reason.
	OfflineFallback bool `json:"offline-fallback" mapstructure:"offline-fallback"`

	// TokenSecret signs locally issued tokens.
	TokenSecret string        `json:"token-secret" mapstructure:"token-secret"`
	TokenTTL    time.Duration `json:"token-ttl" mapstructure:"token-ttl"`
	Issuer      string        `json:"issuer" mapstructure:"issuer"`
}

func NewAuthOptions() *AuthOptions {
	return &AuthOptions{
		Timeout:         10 * time.Second,
		OfflineFallback: true,
		TokenSecret:     "fleetview-local-secret",
		TokenTTL:        24 * time.Hour,
		Issuer:          "fleetview",
	}
}

func (o *AuthOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}
	if o.Endpoint != "" {
		u, err := url.Parse(o.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("--auth.endpoint %q must be an absolute URL", o.Endpoint))
		}
	}
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("--auth.timeout must be positive"))
	}
	if o.TokenSecret == "" {
		errs = append(errs, errors.New("--auth.token-secret must not be empty"))
	}
	if o.Issuer == "" {
		errs = append(errs, errors.New("--auth.issuer must not be empty"))
	}
	if o.TokenTTL <= 0 {
		errs = append(errs, errors.New("--auth.token-ttl must be positive"))
	}
	return errs
}

func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Endpoint, "auth.endpoint", o.Endpoint, "Remote login endpoint (POST, JSON). Empty uses the built-in accounts.")
	fs.DurationVar(&o.Timeout, "auth.timeout", o.Timeout, "Timeout for the remote login request.")
	fs.BoolVar(&o.OfflineFallback, "auth.offline-fallback", o.OfflineFallback, "Fall back to the built-in accounts when the remote login fails.")
	fs.StringVar(&o.TokenSecret, "auth.token-secret", o.TokenSecret, "HMAC secret for locally issued tokens.")
	fs.DurationVar(&o.TokenTTL, "auth.token-ttl", o.TokenTTL, "Lifetime of locally issued tokens. An expired token is discarded when the session is restored.")
	fs.StringVar(&o.Issuer, "auth.issuer", o.Issuer, "Issuer claim of locally issued tokens.")
}
