package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in token claims.
const (
	RoleUser      = "user"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Cookie names shared by every account type.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies an account. Email and Name are only set on access tokens.
type Claims struct {
	ID    string `json:"_id"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (t *TokenIssuer) IssueAccess(id, role, email, name string) (string, error) {
	return t.sign(t.accessSecret, t.accessTTL, Claims{ID: id, Role: role, Email: email, Name: name})
}

func (t *TokenIssuer) IssueRefresh(id, role string) (string, error) {
	return t.sign(t.refreshSecret, t.refreshTTL, Claims{ID: id, Role: role})
}

// IssuePair signs a fresh access and refresh token for one account.
func (t *TokenIssuer) IssuePair(id, role, email, name string) (TokenPair, error) {
	access, err := t.IssueAccess(id, role, email, name)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.IssueRefresh(id, role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *TokenIssuer) ParseAccess(token string) (*Claims, error) {
	return t.parse(t.accessSecret, token)
}

func (t *TokenIssuer) ParseRefresh(token string) (*Claims, error) {
	return t.parse(t.refreshSecret, token)
}

// RefreshTTL is used for the refresh cookie Max-Age.
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// AccessTTL is used for the access cookie Max-Age.
func (t *TokenIssuer) AccessTTL() time.Duration { return t.accessTTL }

func (t *TokenIssuer) sign(secret []byte, ttl time.Duration, c Claims) (string, error) {
	now := t.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   c.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) parse(secret []byte, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromRequest reads the access token from its cookie, then from a
// Bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
