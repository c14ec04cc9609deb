// Package session carries the opaque staff session token between the
// browser and the API, either as a bearer header or an http-only cookie.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"go.uber.org/fx"
)

const defaultCookieName = "karat_sid"

var Module = fx.Module("auth.session",
	fx.Provide(NewManager),
)

type Params struct {
	fx.In

	Cfg   config.Config
	Clock clock.Clock `optional:"true"`
}

type Manager struct {
	cookie string
	secure bool
	clock  clock.Clock
}

func NewManager(p Params) *Manager {
	name := strings.TrimSpace(p.Cfg.AuthCookieName)
	if name == "" {
		name = defaultCookieName
	}
	return &Manager{cookie: name, secure: p.Cfg.AuthCookieSecure, clock: clock.OrReal(p.Clock)}
}

func (m *Manager) CookieName() string {
	return m.cookie
}

// ReadToken prefers the Authorization header so API clients never depend on
// cookies.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	if token := bearer(c.GetHeader("Authorization")); token != "" {
		return token, true
	}
	raw, err := c.Cookie(m.cookie)
	if err != nil {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// Set writes the session cookie so that the browser drops it at expiresAt.
func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	ttl := expiresAt.Sub(m.clock.Now())
	if ttl < 0 {
		ttl = 0
	}
	m.write(c, token, int(ttl/time.Second))
}

func (m *Manager) Clear(c *gin.Context) {
	m.write(c, "", -1)
}

func (m *Manager) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie, value, maxAge, "/", "", m.secure, true)
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
