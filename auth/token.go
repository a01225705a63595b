package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers expired, malformed and badly signed tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials is returned on a failed email/password login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims is the payload of a GTiQ access token. An impersonation token is a
// regular access token carrying the Impersonate fields; it is signed and
// short-lived rather than a client-trusted descriptor.
type Claims struct {
	UserID       uint   `json:"uid"`
	Superadmin   bool   `json:"superadmin,omitempty"`
	ImpCompanyID uint   `json:"imp_company,omitempty"`
	ImpRole      string `json:"imp_role,omitempty"`
	jwt.RegisteredClaims
}

// Impersonating reports whether the token carries an impersonation scope
func (c *Claims) Impersonating() bool {
	return c.ImpCompanyID != 0
}

// TokenIssuer signs and parses access tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given HMAC secret and lifetime
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs an access token for a user
func (t *TokenIssuer) Issue(userID uint, superadmin bool) (string, error) {
	return t.sign(Claims{
		UserID:     userID,
		Superadmin: superadmin,
	}, t.ttl)
}

// IssueImpersonation signs a scoped impersonation token for a superadmin
// acting inside one company with an assumed role.
func (t *TokenIssuer) IssueImpersonation(superadminID, companyID uint, asRole string, ttl time.Duration) (string, error) {
	return t.sign(Claims{
		UserID:       superadminID,
		Superadmin:   true,
		ImpCompanyID: companyID,
		ImpRole:      asRole,
	}, ttl)
}

func (t *TokenIssuer) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", claims.UserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
