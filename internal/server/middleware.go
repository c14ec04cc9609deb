package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	"github.com/smallbiznis/karatledger/internal/authorization"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obslogger "github.com/smallbiznis/karatledger/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	contextUserIDKey = "user_id"
	contextEntityKey = "entity"

	rateLimitEndpoint = "api"
)

// entity names the resource of a route group for not-found messages.
func entity(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextEntityKey, name)
		c.Next()
	}
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		userID := principal.User.ID.String()
		ctx := obscontext.WithActor(c.Request.Context(), obscontext.Actor{
			UserID: userID,
			Role:   string(principal.User.Role),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// authorize gates a route on the casbin policy for the caller's role.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := obscontext.ActorFromContext(c.Request.Context())
		if actor.UserID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		err := s.authzSvc.Authorize(c.Request.Context(), actor.UserID, actor.Role, object, action)
		if errors.Is(err, authorization.ErrForbidden) {
			AbortWithError(c, withMessage(err, http.StatusForbidden, fmt.Sprintf("User role %s is not authorized to access this route", actor.Role)))
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RateLimit throttles per client IP. Redis failures let the request
// through.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.apiLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		result, err := s.apiLimiter.Allow(ctx, c.ClientIP())
		if err != nil {
			obslogger.WithContext(ctx, s.log).Warn("rate limit check failed", zap.Error(err))
			s.obsMetrics.RecordRateLimitAllowed(ctx, rateLimitEndpoint)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.ResetTime.IsZero() {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
		}

		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			}
			s.obsMetrics.RecordRateLimitDenied(ctx, rateLimitEndpoint, "client_ip")
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, rateLimitEndpoint)
		c.Next()
	}
}

// corsMiddleware reflects the allowed origins with credentials on. A
// wildcard origin reflects every caller.
func corsMiddleware(origins string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	wildcard := false
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			wildcard = true
		default:
			allowed[origin] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		wildcard = true
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if wildcard {
				return true
			}
			_, ok := allowed[strings.TrimRight(origin, "/")]
			return ok
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", obslogger.RequestIDHeader},
		ExposeHeaders:    []string{obslogger.RequestIDHeader, "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// recordAudit writes an audit entry for a change made over HTTP. A failed
// write is logged and never fails the request.
func (s *Server) recordAudit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	ctx := c.Request.Context()
	err := s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
	})
	if err != nil {
		obslogger.WithContext(ctx, s.log).Warn("audit record failed",
			zap.String("action", action),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}
