package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure modes. ErrAbsent is not a failure of the token itself:
// it means the caller had nothing to verify and should proceed anonymously.
var (
	ErrAbsent            = errors.New("token absent")
	ErrMalformed         = errors.New("token malformed")
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrExpired           = errors.New("token expired")
)

// DefaultTTL is the session token lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims is the signed session payload: who, since when, until when, and
// which roles were held at issuance.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed session tokens. The signing secret is
// read-only after construction, so a single Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec signing with the given symmetric secret.
// A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue produces a signed token for subject valid from now until now+TTL.
// The signature covers the full payload including both timestamps.
func (c *Codec) Issue(subject string, roles []string, now time.Time) (string, error) {
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks structure, signature and expiry of tokenString as of now and
// returns the embedded claims. Failures are reported through the sentinel
// errors above; an empty token yields ErrAbsent.
func (c *Codec) Verify(tokenString string, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrAbsent
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrSignatureMismatch
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		// A token is valid through its exp instant, not up to it. The jwt
		// validator compares strictly, so give it the smallest leeway that
		// makes the boundary inclusive.
		jwt.WithLeeway(time.Nanosecond),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	if claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
