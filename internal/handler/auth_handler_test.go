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

	"github.com/noah-isme/mergington-activities-api/internal/models"
	appErrors "github.com/noah-isme/mergington-activities-api/pkg/errors"
)

type authServiceMock struct {
	loginResp   *models.LoginResult
	loginErr    error
	lastLogin   models.LoginRequest
	logoutErr   error
	logoutToken string
	status      *models.AuthStatus
	statusToken string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	m.lastLogin = req
	return m.loginResp, m.loginErr
}

func (m *authServiceMock) Logout(ctx context.Context, token string) error {
	m.logoutToken = token
	return m.logoutErr
}

func (m *authServiceMock) Status(ctx context.Context, token string) (*models.AuthStatus, error) {
	m.statusToken = token
	if m.status == nil {
		return &models.AuthStatus{}, nil
	}
	return m.status, nil
}

func newAuthContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	mockSvc := &authServiceMock{loginResp: &models.LoginResult{
		Token: "tok-123",
		Response: models.LoginResponse{
			Success: true,
			Message: "Login successful",
			User:    &models.UserInfo{Username: "mchen", Name: "Mr. Chen"},
		},
	}}
	handler := NewAuthHandler(mockSvc, CookieConfig{Name: "session_token", MaxAge: 24 * time.Hour})

	c, w := newAuthContext(http.MethodPost, "/api/login", []byte(`{"username":"mchen","password":"chess456"}`))
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mchen", mockSvc.lastLogin.Username)
	assert.Equal(t, "chess456", mockSvc.lastLogin.Password)

	var body models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Mr. Chen", body.User.Name)

	cookie := findCookie(w, "session_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "tok-123", cookie.Value)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	mockSvc := &authServiceMock{loginErr: appErrors.ErrInvalidCredentials}
	handler := NewAuthHandler(mockSvc, CookieConfig{})

	c, w := newAuthContext(http.MethodPost, "/api/login", []byte(`{"username":"mchen","password":"nope"}`))
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"detail":"Invalid username or password"`)
	assert.Nil(t, findCookie(w, "session_token"))
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc, CookieConfig{})

	c, w := newAuthContext(http.MethodPost, "/api/login", []byte(`{"username":`))
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.lastLogin.Username)
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc, CookieConfig{Name: "session_token"})

	c, w := newAuthContext(http.MethodPost, "/api/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-123"})
	handler.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, w.Body.String())
	assert.Equal(t, "tok-123", mockSvc.logoutToken)

	cookie := findCookie(w, "session_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandlerLogoutWithoutCookie(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc, CookieConfig{})

	c, w := newAuthContext(http.MethodPost, "/api/logout", nil)
	handler.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mockSvc.logoutToken)
}

func TestAuthHandlerCheck(t *testing.T) {
	mockSvc := &authServiceMock{status: &models.AuthStatus{
		Authenticated: true,
		User:          &models.UserInfo{Username: "mrodriguez", Name: "Ms. Rodriguez"},
	}}
	handler := NewAuthHandler(mockSvc, CookieConfig{})

	c, w := newAuthContext(http.MethodGet, "/api/auth/check", nil)
	c.Request.AddCookie(&http.Cookie{Name: "session_token", Value: "tok"})
	handler.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", mockSvc.statusToken)
	assert.JSONEq(t, `{"authenticated":true,"user":{"username":"mrodriguez","name":"Ms. Rodriguez"}}`, w.Body.String())
}
