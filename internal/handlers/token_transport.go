package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteworks/internal/models"
)

// TokenTransport is the deployment policy for where the refresh token
// travels. Picked once at startup; body and cookie modes are mutually
// exclusive.
type TokenTransport interface {
	// Extract pulls the refresh token out of an incoming request. ok is false
	// when the request was malformed for this transport (e.g. unparseable
	// JSON body); an absent token is ("", true).
	Extract(c *gin.Context) (token string, ok bool)
	// Attach places the refresh token on the response, clearing it from the
	// body when it is carried elsewhere.
	Attach(c *gin.Context, pair *models.TokenPair)
	// Clear removes any client-side refresh state on logout.
	Clear(c *gin.Context)
}

// BodyTransport: the refresh token rides in the JSON body both ways. The
// simple mode, used by the mobile clients.
type BodyTransport struct{}

func NewBodyTransport() *BodyTransport { return &BodyTransport{} }

func (t *BodyTransport) Extract(c *gin.Context) (string, bool) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", false
	}
	return req.RefreshToken, true
}

func (t *BodyTransport) Attach(_ *gin.Context, _ *models.TokenPair) {}

func (t *BodyTransport) Clear(_ *gin.Context) {}

const refreshCookieName = "refresh_token"

// CookieTransport: hardened browser mode. The refresh token lives in an
// HttpOnly, SameSite=Strict cookie scoped to the auth endpoints and never
// appears in a response body.
type CookieTransport struct {
	Path   string // e.g. "/auth"
	MaxAge int    // seconds
	Secure bool
}

func NewCookieTransport(path string, maxAge int, secure bool) *CookieTransport {
	return &CookieTransport{Path: path, MaxAge: maxAge, Secure: secure}
}

func (t *CookieTransport) Extract(c *gin.Context) (string, bool) {
	v, err := c.Cookie(refreshCookieName)
	if err != nil {
		// a missing cookie is an absent token, not a malformed request
		return "", true
	}
	return v, true
}

func (t *CookieTransport) Attach(c *gin.Context, pair *models.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, pair.RefreshToken, t.MaxAge, t.Path, "", t.Secure, true)
	pair.RefreshToken = ""
}

func (t *CookieTransport) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, t.Path, "", t.Secure, true)
}
