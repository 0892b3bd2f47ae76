package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/token"
)

// memoryUserRepository is an in-memory UserRepository for service tests
type memoryUserRepository struct {
	byUsername map[string]*domain.User
	nextID     int64
	failWith   error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{byUsername: map[string]*domain.User{}, nextID: 1}
}

func (m *memoryUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	stored := *user
	stored.ID = m.nextID
	m.nextID++
	m.byUsername[stored.Username] = &stored
	return &stored, nil
}

func (m *memoryUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.byUsername[username], nil
}

func (m *memoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	for name, u := range m.byUsername {
		if u.ID == user.ID && name != user.Username {
			delete(m.byUsername, name)
			break
		}
	}
	m.byUsername[user.Username] = user
	return nil
}

func (m *memoryUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.byUsername[username]
	return ok, nil
}

func (m *memoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.byUsername {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepository) ExistsByNIM(ctx context.Context, nim string) (bool, error) {
	for _, u := range m.byUsername {
		if u.NIM == nim {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthService(users *memoryUserRepository) AuthService {
	return NewAuthService(users, token.NewCodec("test-secret", time.Hour), &AuthServiceConfig{
		BcryptCost: bcrypt.MinCost,
		Cookie:     security.DefaultCookieConfig(),
	})
}

func seedUser(t *testing.T, users *memoryUserRepository, username, password string, roles ...domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	u, err := users.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@binus.ac.id",
		PasswordHash: string(hash),
		NIM:          "2440011223",
		Phone:        "0812345678",
		Jurusan:      "Computer Science",
		Roles:        roles,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return u
}

func validSignup() *dto.SignupRequest {
	return &dto.SignupRequest{
		Username: "newstudent",
		Email:    "newstudent@binus.ac.id",
		Password: "password123",
		NIM:      "2440099887",
		Phone:    "08123456789",
		Jurusan:  "Information Systems",
	}
}

func TestSigninSuccess(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "secret123")
	svc := newTestAuthService(users)

	user, cookie, err := svc.Signin(context.Background(), &dto.SigninRequest{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signin failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected user 'alice', got '%s'", user.Username)
	}

	if cookie.Name != "bcod-session" {
		t.Errorf("Expected cookie 'bcod-session', got '%s'", cookie.Name)
	}
	if cookie.Path != "/api" {
		t.Errorf("Expected cookie path '/api', got '%s'", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Session cookie must be HttpOnly")
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Errorf("Expected MaxAge %d, got %d", int(time.Hour.Seconds()), cookie.MaxAge)
	}

	// The cookie value is a verifiable token carrying the bare role names
	claims, err := token.NewCodec("test-secret", time.Hour).Verify(cookie.Value, time.Now())
	if err != nil {
		t.Fatalf("Cookie token did not verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Expected token subject 'alice', got '%s'", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "USER" {
		t.Errorf("Expected bare role names [USER], got %v", claims.Roles)
	}
}

func TestSigninUnknownUser(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepository())

	_, _, err := svc.Signin(context.Background(), &dto.SigninRequest{
		Username: "nobody",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSigninWrongPassword(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "secret123")
	svc := newTestAuthService(users)

	_, _, err := svc.Signin(context.Background(), &dto.SigninRequest{
		Username: "alice",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupSuccess(t *testing.T) {
	users := newMemoryUserRepository()
	svc := newTestAuthService(users)

	if err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	stored := users.byUsername["newstudent"]
	if stored == nil {
		t.Fatal("User was not persisted")
	}
	if len(stored.Roles) != 1 || stored.Roles[0] != domain.RoleUser {
		t.Errorf("Expected default role USER, got %v", stored.Roles)
	}
	if !stored.VerifiedBinusian {
		t.Error("Institutional email must mark the account verified")
	}
	if stored.PasswordHash == "password123" {
		t.Error("Password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("Stored hash does not match password: %v", err)
	}
}

func TestSignupCheckOrder(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "taken", "pw")
	svc := newTestAuthService(users)

	cases := []struct {
		name   string
		mutate func(*dto.SignupRequest)
		reason string
	}{
		{
			// Username conflict wins even when the email is also bad
			name: "username taken",
			mutate: func(r *dto.SignupRequest) {
				r.Username = "taken"
				r.Email = "whatever@gmail.com"
			},
			reason: "Error: Username taken!",
		},
		{
			name: "email taken",
			mutate: func(r *dto.SignupRequest) {
				r.Email = "taken@binus.ac.id"
			},
			reason: "Error: Email taken!",
		},
		{
			name: "nim taken",
			mutate: func(r *dto.SignupRequest) {
				r.NIM = "2440011223"
			},
			reason: "Error: NIM already registered!",
		},
		{
			name: "wrong email domain",
			mutate: func(r *dto.SignupRequest) {
				r.Email = "student@gmail.com"
			},
			reason: "Email must be a valid @binus.ac.id address",
		},
		{
			name: "bad nim format",
			mutate: func(r *dto.SignupRequest) {
				r.NIM = "1234"
			},
			reason: "NIM must start with 2 and be 10 digits total",
		},
		{
			name: "bad phone format",
			mutate: func(r *dto.SignupRequest) {
				r.Phone = "12345"
			},
			reason: "Phone must start with 08 and be 10-12 digits",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSignup()
			tc.mutate(req)

			err := svc.Signup(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Reason != tc.reason {
				t.Errorf("Expected reason %q, got %q", tc.reason, verr.Reason)
			}
		})
	}
}

func TestSignupRejectionWritesNothing(t *testing.T) {
	users := newMemoryUserRepository()
	svc := newTestAuthService(users)

	req := validSignup()
	req.Email = "student@gmail.com"
	if err := svc.Signup(context.Background(), req); err == nil {
		t.Fatal("Expected rejection")
	}

	if _, ok := users.byUsername[req.Username]; ok {
		t.Error("Rejected signup must not persist a user")
	}
}

func TestSignoutClearsCookie(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepository())

	cookie := svc.Signout()
	if cookie.Name != "bcod-session" {
		t.Errorf("Expected cookie 'bcod-session', got '%s'", cookie.Name)
	}
	if cookie.Value != "" {
		t.Errorf("Clearing cookie must carry no value, got '%s'", cookie.Value)
	}
	if cookie.MaxAge != -1 {
		t.Errorf("Expected MaxAge -1, got %d", cookie.MaxAge)
	}
}

func TestGetProfile(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "pw")
	svc := newTestAuthService(users)

	user, err := svc.GetProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected 'alice', got '%s'", user.Username)
	}

	if _, err := svc.GetProfile(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateLimited(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "pw")
	svc := newTestAuthService(users)

	newName := "alice2"
	newPhone := "089998887766"
	user, err := svc.UpdateLimited(context.Background(), "alice", &dto.UpdateLimitedRequest{
		Username: &newName,
		Phone:    &newPhone,
	})
	if err != nil {
		t.Fatalf("UpdateLimited failed: %v", err)
	}
	if user.Username != "alice2" {
		t.Errorf("Expected username 'alice2', got '%s'", user.Username)
	}
	if user.Phone != newPhone {
		t.Errorf("Expected phone %q, got %q", newPhone, user.Phone)
	}
}

func TestUpdateLimitedUsernameConflict(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "pw")
	seedUser(t, users, "bob", "pw")
	svc := newTestAuthService(users)

	wanted := "bob"
	_, err := svc.UpdateLimited(context.Background(), "alice", &dto.UpdateLimitedRequest{
		Username: &wanted,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Reason != "Username already taken" {
		t.Errorf("Expected 'Username already taken', got %q", verr.Reason)
	}
}

func TestUpdateLimitedSameUsernameNoConflict(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "alice", "pw")
	svc := newTestAuthService(users)

	same := "alice"
	if _, err := svc.UpdateLimited(context.Background(), "alice", &dto.UpdateLimitedRequest{
		Username: &same,
	}); err != nil {
		t.Errorf("Keeping the current username must not conflict: %v", err)
	}
}
