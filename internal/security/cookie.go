package security

import (
	"net/http"
	"time"
)

// CookieConfig describes the session cookie attributes
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool
}

// DefaultCookieConfig returns the standard session cookie settings
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name: "bcod-session",
		Path: "/api",
	}
}

// SessionCookie wraps an issued token in a cookie valid for ttl. HttpOnly and
// SameSite=Lax keep it away from page scripts and cross-site submissions.
func SessionCookie(cfg CookieConfig, tokenValue string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    tokenValue,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearingCookie instructs the client to discard the session cookie. The
// server keeps no session state, so this is the entirety of logout.
func ClearingCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
