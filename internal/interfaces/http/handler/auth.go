package handler

import (
	identityapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and account endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
// @Summary      Register
// @Description  Create a customer account and issue a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Registration request"
// @Success      201 {object} dto.Response{data=identityapp.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	auth, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, auth)
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with email and password and issue a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Login request"
// @Success      200 {object} dto.Response{data=identityapp.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	auth, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, auth)
}

// Profile godoc
// @Summary      Get profile
// @Description  Retrieve the authenticated user's account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Replace the authenticated user's name, email and phone
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile update request"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// ForgotPassword godoc
// @Summary      Request password reset
// @Description  Email a time-limited password reset link to the account holder
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ForgotPasswordRequest true "Forgot password request"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req identityapp.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset link sent to your email"})
}

// ResetPassword godoc
// @Summary      Reset password
// @Description  Set a new password using a reset token and issue a fresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ResetPasswordRequest true "Reset password request"
// @Success      200 {object} dto.Response{data=identityapp.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	auth, err := h.authService.ResetPassword(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, auth)
}

// ListUsers godoc
// @Summary      List users
// @Description  List registered users with pagination and optional name or email search. Admin only.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Name or email substring filter"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	var filter identityapp.ListUsersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	users, total, err := h.authService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}
