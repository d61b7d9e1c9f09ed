package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteworks/internal/models"
	"siteworks/internal/services"
	"siteworks/internal/utils"
)

type AuthHandler struct {
	auth      *services.AuthService
	transport TokenTransport
}

func NewAuthHandler(auth *services.AuthService, transport TokenTransport) *AuthHandler {
	return &AuthHandler{auth: auth, transport: transport}
}

// @Summary      Request a verification code
// @Description  Sends a one-time code to the given phone number via SMS
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.SendOTPRequest  true  "Phone number"
// @Success      200      {object}  models.SendOTPResponse
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.auth.SendOTP(req.Phone, req.CountryCode)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		// delivery detail stays server-side
		log.Printf("[auth][send-otp] failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Verify a code and sign in
// @Description  Verifies the one-time code, creating the account on first use, and returns a token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyOTPRequest  true  "Phone number and code"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.auth.VerifyOTP(req.Phone, req.CountryCode, req.Code)
	if err != nil {
		h.writeVerifyError(c, err)
		return
	}

	h.transport.Attach(c, res.Tokens)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Phone verified",
		"user":      res.User,
		"tokens":    res.Tokens,
		"isNewUser": res.IsNewUser,
	})
}

func (h *AuthHandler) writeVerifyError(c *gin.Context, err error) {
	var invalid *services.InvalidCodeError
	switch {
	case errors.Is(err, utils.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired or not found, request a new one", "code": "code_expired"})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many attempts, request a new code", "code": "too_many_attempts"})
	case errors.As(err, &invalid):
		msg := "invalid code"
		if invalid.Remaining == 0 {
			msg = "invalid code, no attempts remain, request a new code"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             msg,
			"code":              "invalid_code",
			"attemptsRemaining": invalid.Remaining,
		})
	default:
		log.Printf("[auth][verify-otp] failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
	}
}

// @Summary      Rotate the session
// @Description  Exchanges a refresh token for a new token pair; the old refresh token is consumed
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.TokenPair
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := h.transport.Extract(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	pair, err := h.auth.Refresh(token)
	if err != nil {
		if errors.Is(err, services.ErrRefreshRejected) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token, sign in again"})
			return
		}
		log.Printf("[auth][refresh] failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	h.transport.Attach(c, pair)
	c.JSON(http.StatusOK, pair)
}

// @Summary      Sign out
// @Description  Revokes the refresh token; idempotent
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// logout is idempotent; a malformed body just logs out nothing
	token, _ := h.transport.Extract(c)

	if err := h.auth.Logout(token); err != nil {
		log.Printf("[auth][logout] failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	h.transport.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.auth.CurrentUser(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}
