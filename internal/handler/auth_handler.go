package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/pkg/response"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signin handles login
// POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, cookie, err := h.authService.Signin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Clients key off this exact body, status and all
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Bad credentials",
				"status":  false,
			})
			return
		}
		response.InternalError(c, err)
		return
	}

	http.SetCookie(c.Writer, cookie)
	c.JSON(http.StatusOK, dto.NewUserInfoResponse(user, cookie.Value))
}

// Signup handles registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.Signup(c.Request.Context(), &req); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.String(http.StatusBadRequest, verr.Reason)
			return
		}
		response.InternalError(c, err)
		return
	}

	c.String(http.StatusOK, "Registration successful!")
}

// Signout clears the session cookie
// POST /api/auth/signout
func (h *AuthHandler) Signout(c *gin.Context) {
	http.SetCookie(c.Writer, h.authService.Signout())
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "You've been signed out!"})
}

// CurrentUser returns the authenticated account's profile
// GET /api/auth/user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	sc := security.FromGin(c)

	user, err := h.authService.GetProfile(c.Request.Context(), sc.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfoResponse(user, ""))
}

// CurrentUsername returns the authenticated username as a bare string
// GET /api/auth/username
func (h *AuthHandler) CurrentUsername(c *gin.Context) {
	c.String(http.StatusOK, security.FromGin(c).Username)
}

// UpdateLimited changes username and/or phone on the caller's account
// PUT /api/auth/user/update-limited
func (h *AuthHandler) UpdateLimited(c *gin.Context) {
	var req dto.UpdateLimitedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sc := security.FromGin(c)
	user, err := h.authService.UpdateLimited(c.Request.Context(), sc.Username, &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.String(http.StatusBadRequest, verr.Reason)
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfoResponse(user, ""))
}
