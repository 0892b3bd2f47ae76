package dto

import (
	"github.com/bcod/campus-market/internal/domain"
)

// SigninRequest is the login payload
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the registration payload. Size limits mirror the account
// schema; the institutional identity rules (email domain, NIM, phone) run in
// the service after the uniqueness checks.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6,max=40"`
	NIM      string `json:"nim" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Jurusan  string `json:"jurusan" binding:"required"`
}

// UpdateLimitedRequest carries the only profile fields a user may change
// about their own account. Nil means "leave unchanged".
type UpdateLimitedRequest struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
}

// UserInfoResponse is the profile body returned by signin, /auth/user and
// update-limited. JwtToken is set on signin only, kept for client
// compatibility with the cookie being the real session carrier.
type UserInfoResponse struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	NIM              string   `json:"nim"`
	Jurusan          string   `json:"jurusan"`
	Phone            string   `json:"phone"`
	VerifiedBinusian bool     `json:"verifiedBinusian"`
	Roles            []string `json:"roles"`
	JwtToken         string   `json:"jwtToken,omitempty"`
}

// NewUserInfoResponse builds the profile body from a stored user
func NewUserInfoResponse(user *domain.User, jwtToken string) UserInfoResponse {
	return UserInfoResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		NIM:              user.NIM,
		Jurusan:          user.Jurusan,
		Phone:            user.Phone,
		VerifiedBinusian: user.VerifiedBinusian,
		Roles:            user.Authorities(),
		JwtToken:         jwtToken,
	}
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}
