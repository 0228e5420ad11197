package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// AuthHandler handles sign-up, sign-in, sign-out and the profile.
type AuthHandler struct {
	data     userdata.DataContext
	sessions auth.Provider
}

// NewAuthHandler creates a new AuthHandler. sessions may be nil when the
// server runs without an identity provider.
func NewAuthHandler(data userdata.DataContext, sessions auth.Provider) *AuthHandler {
	return &AuthHandler{data: data, sessions: sessions}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the profile update payload
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AuthResponse carries the access token and the loaded profile.
type AuthResponse struct {
	Token     string              `json:"token,omitempty"`
	ExpiresAt int64               `json:"expires_at,omitempty"`
	Profile   *models.UserProfile `json:"profile"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an identity and load its default profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	profile, err := h.data.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.authResponse(c, profile))
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate and load the user's profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	profile, err := h.data.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.authResponse(c, profile))
}

// Logout signs out and wipes local data
// @Summary     Logout
// @Description Sign out and clear every locally stored key
// @Tags        auth
// @Security    BearerAuth
// @Success     204 "Signed out"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.data.ClearUser(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) authResponse(c *gin.Context, profile *models.UserProfile) AuthResponse {
	resp := AuthResponse{Profile: profile}
	if h.sessions == nil {
		return resp
	}
	if session, err := h.sessions.GetSession(c.Request.Context()); err == nil && session != nil {
		resp.Token = session.AccessToken
		resp.ExpiresAt = session.ExpiresAt.Unix()
	}
	return resp
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the full profile document of the signed-in user
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserProfile "User profile"
// @Failure     401 {object} ErrorResponse "Not signed in"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile := h.data.Snapshot()
	if profile == nil {
		respondWithError(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile renames the user
// @Summary     Update user profile
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.UserProfile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Not signed in"
// @Router      /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	profile, err := h.data.UpdateProfile(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetStatus reports the loading state and storage mode
// @Summary     Data context status
// @Tags        user
// @Produce     json
// @Success     200 {object} userdata.Status
// @Router      /status [get]
func (h *AuthHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.data.Status())
}
