package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteworks/internal/models"
	"siteworks/internal/repositories"
	"siteworks/internal/services"
)

const testPhone = "+15551234567"

// newAuthRig wires the real auth services over in-memory stores so the
// handlers can be driven end to end through httptest, with the transport
// under test injected.
func newAuthRig(transport TokenTransport) *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := newMemUserStore()
	otp := services.NewOTPService(newMemOTPStore(), nopGateway{}, 5*time.Minute, 3, true, "")
	tokens := services.NewTokenService(newMemTokenStore(), users, []byte("handler-test-secret"), 15*time.Minute, 7*24*time.Hour)
	auth := services.NewAuthService(otp, tokens, users, nil)

	h := NewAuthHandler(auth, transport)
	r := gin.New()
	g := r.Group("/auth")
	g.POST("/send-otp", h.SendOTP)
	g.POST("/verify-otp", h.VerifyOTP)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	return r
}

func postJSON(r *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sendAndGetCode requests a code and reads the plaintext back out of the
// dev-mode hint.
func sendAndGetCode(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := postJSON(r, "/auth/send-otp", `{"phone":"`+testPhone+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res models.SendOTPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.DevHint)
	return res.DevHint
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestVerifyOTPCookieModeOmitsBodyToken(t *testing.T) {
	r := newAuthRig(NewCookieTransport("/auth", 3600, false))
	code := sendAndGetCode(t, r)

	w := postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"`+code+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	ck := cookieNamed(w, "refresh_token")
	require.NotNil(t, ck, "cookie mode must set the refresh cookie")
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/auth", ck.Path)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	// the body carries the access token only
	assert.NotContains(t, w.Body.String(), "refreshToken")
	assert.Contains(t, w.Body.String(), "accessToken")
}

func TestRefreshCookieModeRotatesCookie(t *testing.T) {
	r := newAuthRig(NewCookieTransport("/auth", 3600, false))
	code := sendAndGetCode(t, r)

	w := postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"`+code+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	first := cookieNamed(w, "refresh_token")
	require.NotNil(t, first)

	w2 := postJSON(r, "/auth/refresh", "", &http.Cookie{Name: "refresh_token", Value: first.Value})
	require.Equal(t, http.StatusOK, w2.Code)
	next := cookieNamed(w2, "refresh_token")
	require.NotNil(t, next, "refresh must re-issue the cookie")
	assert.NotEqual(t, first.Value, next.Value)
	assert.NotContains(t, w2.Body.String(), "refreshToken")
	assert.Contains(t, w2.Body.String(), "accessToken")

	// without the cookie there is nothing to rotate
	w3 := postJSON(r, "/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, w3.Code)
}

func TestLogoutCookieModeClearsCookie(t *testing.T) {
	r := newAuthRig(NewCookieTransport("/auth", 3600, false))
	code := sendAndGetCode(t, r)

	w := postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"`+code+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	ck := cookieNamed(w, "refresh_token")
	require.NotNil(t, ck)

	w2 := postJSON(r, "/auth/logout", "", &http.Cookie{Name: "refresh_token", Value: ck.Value})
	require.Equal(t, http.StatusOK, w2.Code)
	cleared := cookieNamed(w2, "refresh_token")
	require.NotNil(t, cleared, "logout must clear the refresh cookie")
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// the revoked token is gone for good
	w3 := postJSON(r, "/auth/refresh", "", &http.Cookie{Name: "refresh_token", Value: ck.Value})
	assert.Equal(t, http.StatusUnauthorized, w3.Code)
}

func TestVerifyOTPErrorCodes(t *testing.T) {
	r := newAuthRig(NewBodyTransport())

	// no active code for the phone
	w := postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"code_expired"`)

	code := sendAndGetCode(t, r)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for _, remaining := range []string{"2", "1", "0"} {
		w = postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"`+wrong+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"invalid_code"`)
		assert.Contains(t, w.Body.String(), `"attemptsRemaining":`+remaining)
	}

	w = postJSON(r, "/auth/verify-otp", `{"phone":"`+testPhone+`","code":"`+wrong+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"too_many_attempts"`)
}

func TestRefreshBodyModeMalformedBody(t *testing.T) {
	r := newAuthRig(NewBodyTransport())

	// unparseable JSON is a validation failure, not a rejected token
	w := postJSON(r, "/auth/refresh", `{"refreshToken":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a well-formed body with no token is a rejected token
	w = postJSON(r, "/auth/refresh", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ---- in-memory stores, mirroring the repository semantics

type nopGateway struct{}

func (nopGateway) SendOTP(phone, code string) error { return nil }

type memOTPStore struct {
	mu    sync.Mutex
	seq   int64
	codes map[int64]*models.OTPCode
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: map[int64]*models.OTPCode{}}
}

func (s *memOTPStore) Create(phone, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.codes[s.seq] = &models.OTPCode{
		ID: s.seq, Phone: phone, CodeHash: codeHash,
		SentAt: sentAt, ExpiresAt: expiresAt,
	}
	return s.seq, nil
}

func (s *memOTPStore) DeleteUnverifiedByPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.codes {
		if c.Phone == phone && !c.Verified {
			delete(s.codes, id)
		}
	}
	return nil
}

func (s *memOTPStore) GetLatestUnverifiedByPhone(phone string) (*models.OTPCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.OTPCode
	for _, c := range s.codes {
		if c.Phone == phone && !c.Verified && (latest == nil || c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *memOTPStore) IncrementAttempts(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.codes[id]
	c.Attempts++
	return c.Attempts, nil
}

func (s *memOTPStore) MarkVerified(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.codes[id]; ok {
		c.Verified = true
	}
	return nil
}

func (s *memOTPStore) MarkVerifiedByPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.Phone == phone && !c.Verified {
			c.Verified = true
		}
	}
	return nil
}

func (s *memOTPStore) DeleteExpiredOrVerified(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.codes {
		if c.Verified || c.ExpiresAt.Before(now) {
			delete(s.codes, id)
			n++
		}
	}
	return n, nil
}

type memTokenStore struct {
	mu   sync.Mutex
	seq  int64
	rows map[string]*models.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{rows: map[string]*models.RefreshToken{}}
}

func (s *memTokenStore) Create(token string, userID int, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.rows[token] = &models.RefreshToken{
		ID: s.seq, Token: token, UserID: userID,
		ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	return nil
}

func (s *memTokenStore) GetByToken(token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *memTokenStore) Consume(token string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok || row.Revoked || !row.ExpiresAt.After(now) {
		return 0, repositories.ErrNotFound
	}
	row.Revoked = true
	t := now
	row.RotatedAt = &t
	return row.UserID, nil
}

func (s *memTokenStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[token]; ok {
		row.Revoked = true
	}
	return nil
}

func (s *memTokenStore) DeleteExpired(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, row := range s.rows {
		if row.ExpiresAt.Before(now) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}

type memUserStore struct {
	mu      sync.Mutex
	seq     int
	byID    map[int]*models.User
	byPhone map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: map[int]*models.User{}, byPhone: map[string]*models.User{}}
}

func (s *memUserStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) FindOrCreate(phone string) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byPhone[phone]; ok {
		cp := *u
		return &cp, false, nil
	}
	s.seq++
	u := &models.User{ID: s.seq, Phone: phone, Name: models.DefaultUserName, CreatedAt: time.Now()}
	s.byID[u.ID] = u
	s.byPhone[phone] = u
	cp := *u
	return &cp, true, nil
}
