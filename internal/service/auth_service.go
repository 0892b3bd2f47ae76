package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/token"
	"github.com/bcod/campus-market/internal/validation"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so the caller cannot tell which field was wrong
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError carries the human-readable reason a registration or
// profile-update rule failed. Handlers surface Reason verbatim with a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost int
	Cookie     security.CookieConfig
}

// AuthService defines the interface for account and session operations
type AuthService interface {
	// Signin verifies credentials and issues the session cookie
	Signin(ctx context.Context, req *dto.SigninRequest) (*domain.User, *http.Cookie, error)
	// Signup registers a new account after the identity checks pass
	Signup(ctx context.Context, req *dto.SignupRequest) error
	// Signout returns the cookie that clears the client session
	Signout() *http.Cookie
	// GetProfile retrieves the account behind an authenticated username
	GetProfile(ctx context.Context, username string) (*domain.User, error)
	// UpdateLimited changes username and/or phone on the caller's account
	UpdateLimited(ctx context.Context, username string, req *dto.UpdateLimitedRequest) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	users  repository.UserRepository
	codec  *token.Codec
	config *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, codec *token.Codec, config *AuthServiceConfig) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = 12
	}
	if config.Cookie.Name == "" {
		config.Cookie = security.DefaultCookieConfig()
	}
	return &authService{
		users:  users,
		codec:  codec,
		config: config,
	}
}

// Signin verifies the credential pair and wraps a fresh token in the session
// cookie. Unknown user and bad password take the same failure path.
func (s *authService) Signin(ctx context.Context, req *dto.SigninRequest) (*domain.User, *http.Cookie, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}

	tokenValue, err := s.codec.Issue(user.Username, roles, time.Now())
	if err != nil {
		return nil, nil, err
	}

	return user, security.SessionCookie(s.config.Cookie, tokenValue, s.codec.TTL()), nil
}

// Signup registers a new account. Check order is fixed so failure messages
// are deterministic: username taken, email taken, NIM taken, then the email
// domain, NIM format and phone format rules. Nothing is written until every
// check passes.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Reason: "Error: Username taken!"}
	}

	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Reason: "Error: Email taken!"}
	}

	taken, err = s.users.ExistsByNIM(ctx, req.NIM)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Reason: "Error: NIM already registered!"}
	}

	if ok, reason := validation.ValidateEmail(req.Email); !ok {
		return &ValidationError{Reason: reason}
	}
	if ok, reason := validation.ValidateNIM(req.NIM); !ok {
		return &ValidationError{Reason: reason}
	}
	if ok, reason := validation.ValidatePhone(req.Phone); !ok {
		return &ValidationError{Reason: reason}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		NIM:          req.NIM,
		Phone:        req.Phone,
		Jurusan:      req.Jurusan,
		// A passing institutional email means the account is a verified member
		VerifiedBinusian: true,
		Roles:            []domain.Role{domain.RoleUser},
	})
	return err
}

// Signout returns the clearing cookie. There is no server-side session record
// to invalidate.
func (s *authService) Signout() *http.Cookie {
	return security.ClearingCookie(s.config.Cookie)
}

// GetProfile retrieves the account behind an authenticated username
func (s *authService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateLimited changes username (with a uniqueness re-check) and/or phone.
// All other fields are off limits on this path.
func (s *authService) UpdateLimited(ctx context.Context, username string, req *dto.UpdateLimitedRequest) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ValidationError{Reason: "Username already taken"}
		}
		user.Username = *req.Username
	}

	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
