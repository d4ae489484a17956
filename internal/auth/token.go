package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/config"
	"github.com/verdantlabs/verdant/internal/user"
)

// Claims is the JWT payload shared by access and refresh tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints and verifies the two token kinds. Access and refresh tokens use
// independent secrets and TTLs so a leaked access secret never extends a session.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer builds a token issuer from configuration. Secrets are validated at
// config load, so signing cannot fail per request.
func NewIssuer(cfg config.Config) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// Issue mints an access/refresh token pair for the user.
func (i *Issuer) Issue(u user.User) (TokenPair, error) {
	access, err := i.sign(u, i.accessSecret, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(u, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a new access token only. Used by the refresh flow, which
// never rotates the refresh token.
func (i *Issuer) IssueAccess(u user.User) (string, error) {
	return i.sign(u, i.accessSecret, i.accessTTL)
}

func (i *Issuer) sign(u user.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token's signature and expiry, mapping
// expiry onto a distinct error code so clients know a refresh may help.
func (i *Issuer) VerifyAccess(token string) (Claims, error) {
	return verify(token, i.accessSecret)
}

// VerifyRefresh validates a refresh token's signature and expiry.
func (i *Issuer) VerifyRefresh(token string) (Claims, error) {
	return verify(token, i.refreshSecret)
}

func verify(token string, secret []byte) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperr.New(apperr.CodeTokenExpired, "token expired")
		}
		return Claims{}, apperr.Wrap(apperr.CodeTokenInvalid, "invalid token", err)
	}
	if claims.Subject == "" {
		return Claims{}, apperr.New(apperr.CodeTokenInvalid, "token missing subject")
	}
	return claims, nil
}

// AccessTTL exposes the access token lifetime for cookie max-age.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL exposes the refresh token lifetime for cookie max-age and the
// session registry TTL.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }
