package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// Account is a built-in credential.
type Account struct {
	User         model.User
	PasswordHash []byte
}

// NewAccount hashes password with bcrypt.
func NewAccount(user model.User, password string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("failed to hash password for %s: %w", user.Email, err)
	}
	return Account{User: user, PasswordHash: hash}, nil
}

// DefaultAccounts are the two demo accounts.
func DefaultAccounts() ([]Account, error) {
	seeds := []struct {
		user     model.User
		password string
	}{
		{model.User{ID: "1", Email: "admin@fleet.com", Role: model.RoleAdmin}, "admin123"},
		{model.User{ID: "2", Email: "user@fleet.com", Role: model.RoleUser}, "user123"},
	}

	accounts := make([]Account, 0, len(seeds))
	for _, s := range seeds {
		a, err := NewAccount(s.user, s.password)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// TokenConfig controls tokens issued by Local.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Claims is the payload of a locally issued token.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

var (
	_ core.Authenticator = (*Local)(nil)
	_ core.TokenVerifier = (*Local)(nil)
)

// Local authenticates against a fixed account table and issues HS256 tokens.
type Local struct {
	accounts map[string]Account
	token    TokenConfig
	now      func() time.Time
}

func NewLocal(accounts []Account, token TokenConfig) *Local {
	l := &Local{
		accounts: make(map[string]Account, len(accounts)),
		token:    token,
		now:      time.Now,
	}
	for _, a := range accounts {
		l.accounts[strings.ToLower(a.User.Email)] = a
	}
	return l
}

func (l *Local) Authenticate(_ context.Context, email, password string) (s *model.Session, err error) {
	defer func() { observe(sourceLocal, err) }()

	acct, ok := l.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		// Keep timing similar for unknown emails.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, core.ErrInvalidCredentials
	}

	token, err := l.issue(acct.User)
	if err != nil {
		return nil, err
	}
	return &model.Session{User: acct.User, Token: token}, nil
}

func (l *Local) issue(u model.User) (string, error) {
	now := l.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    l.token.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.token.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.token.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token issued by Local and returns its claims.
func (l *Local) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return l.token.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// VerifyToken rejects a token Local issued that has expired, fails its
// signature or names another user. Tokens from other issuers are opaque to
// Local and pass.
func (l *Local) VerifyToken(token string, user model.User) error {
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, unverified); err != nil || unverified.Issuer != l.token.Issuer {
		return nil
	}

	claims, err := l.ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Subject != user.ID || claims.Role != user.Role {
		return fmt.Errorf("token was issued to user %s as %s", claims.Subject, claims.Role)
	}
	return nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fleetview"), bcrypt.DefaultCost)
