package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	return c, rec
}

func TestReadToken(t *testing.T) {
	m := NewManager(Params{Cfg: config.Config{}})
	assert.Equal(t, defaultCookieName, m.CookieName())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "bearer  abc123 ")
	req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: "from-cookie"})
	c, _ := newContext(req)
	token, ok := m.ReadToken(c)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: "from-cookie"})
	c, _ = newContext(req)
	token, ok = m.ReadToken(c)
	require.True(t, ok)
	assert.Equal(t, "from-cookie", token)

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	_, ok = m.ReadToken(c)
	assert.False(t, ok)
}

func TestSetAndClearCookie(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	m := NewManager(Params{Cfg: config.Config{AuthCookieName: "shop", AuthCookieSecure: true}, Clock: clk})

	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	m.Set(c, "tok", clk.Now().Add(2*time.Hour))
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, "shop", cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)

	c, rec = newContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	m.Clear(c)
	cookie = rec.Result().Cookies()[0]
	assert.Equal(t, "shop", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
