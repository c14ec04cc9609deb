package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/auth/password"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt string           `json:"expires_at"`
	User      *authdomain.User `json:"user"`
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		AbortWithError(c, newValidationError("credentials", "required", "Please provide an email and password"))
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		s.recordAudit(c, "user.login_failed", "user", "", map[string]any{
			"email": email,
		})
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	userID := result.User.ID.String()
	ctx := obscontext.WithActor(c.Request.Context(), obscontext.Actor{UserID: userID, Role: string(result.User.Role)})
	c.Request = c.Request.WithContext(ctx)
	s.recordAudit(c, "user.login", "user", userID, map[string]any{
		"email":      result.User.Email,
		"session_id": result.SessionID.String(),
	})

	respondOK(c, loginResponse{
		Token:     result.RawToken,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      result.User,
	})
}

func (s *Server) Register(c *gin.Context) {
	var req authdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authsvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "user.register", "user", user.ID.String(), map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})

	respondCreated(c, user)
}

func (s *Server) ChangePassword(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.CurrentPassword == "" {
		AbortWithError(c, newValidationError("current_password", "required", "current password is required"))
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		AbortWithError(c, newValidationError("new_password", "required", "new password is required"))
		return
	}
	if req.CurrentPassword == req.NewPassword {
		AbortWithError(c, newValidationError("new_password", "must_differ", "new password must be different"))
		return
	}

	user, err := s.authsvc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		AbortWithError(c, authdomain.ErrInvalidCredentials)
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	// Every session was revoked, so the caller gets a fresh one.
	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     user.Email,
		Password:  req.NewPassword,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	s.recordAudit(c, "user.change_password", "user", userID, map[string]any{
		"session_id": result.SessionID.String(),
	})
	respondOK(c, loginResponse{
		Token:     result.RawToken,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      result.User,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	s.recordAudit(c, "user.logout", "user", c.GetString(contextUserIDKey), nil)
	respondOK(c, gin.H{})
}

func (s *Server) Me(c *gin.Context) {
	user, err := s.authsvc.CurrentUser(c.Request.Context(), c.GetString(contextUserIDKey))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	respondOK(c, user)
}

// authRuleMessage surfaces the auth service's own wording.
func authRuleMessage(err error) (string, bool) {
	switch {
	case errorsIsAny(err,
		authdomain.ErrInvalidEmail,
		authdomain.ErrWeakPassword,
		authdomain.ErrInvalidRole,
		authdomain.ErrMissingName,
	):
		return capitalize(err.Error()), true
	default:
		return "", false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
