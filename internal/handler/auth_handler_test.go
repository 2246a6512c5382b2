package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absensi-api/internal/middleware"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type authServiceMock struct {
	loginResp   *models.LoginResponse
	loginErr    error
	lastLogin   models.LoginRequest
	changeErr   error
	changedUser string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	return m.loginResp, m.loginErr
}

func (m *authServiceMock) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	m.changedUser = userID
	return m.changeErr
}

func (m *authServiceMock) Me(claims *models.SessionClaims) *models.MeResponse {
	return &models.MeResponse{User: claims.Info()}
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	svc := &authServiceMock{loginResp: &models.LoginResponse{
		Token:     "signed",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.UserInfo{ID: "u1", Email: "guru@sma.sch.id"},
	}}
	handler := NewAuthHandler(svc, CookieOptions{Name: "sma_session", Secure: true})

	c, w := newJSONContext(http.MethodPost, "/auth/login", `{"email":"guru@sma.sch.id","password":"password"}`)
	c.Request.Header.Set("User-Agent", "test-agent")
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-agent", svc.lastLogin.UserAgent)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sma_session", cookies[0].Name)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Greater(t, cookies[0].MaxAge, 3500)
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials}, CookieOptions{})

	c, w := newJSONContext(http.MethodPost, "/auth/login", `{"email":`)
	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newJSONContext(http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"x"}`)
	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerLogoutExpiresCookie(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{}, CookieOptions{})
	c, w := newJSONContext(http.MethodPost, "/auth/logout", "")
	handler.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sma_session", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerMeAndChangePassword(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc, CookieOptions{})

	c, w := newJSONContext(http.MethodGet, "/auth/me", "")
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newJSONContext(http.MethodGet, "/auth/me", "")
	c.Set(middleware.ContextUserKey, &models.SessionClaims{UserID: "u1", Email: "guru@sma.sch.id", Role: "guru"})
	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "u1", data["user"].(map[string]interface{})["id"])

	c, w = newJSONContext(http.MethodPost, "/auth/change-password", `{"old_password":"a","new_password":"bbbbbb"}`)
	c.Set(middleware.ContextUserKey, &models.SessionClaims{UserID: "u1"})
	handler.ChangePassword(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u1", svc.changedUser)
}
