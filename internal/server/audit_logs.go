package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
)

type listAuditLogsQuery struct {
	auditdomain.ListAuditLogRequest
	From string `form:"from"`
	To   string `form:"to"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := query.ListAuditLogRequest
	if strings.TrimSpace(req.StartDate) == "" {
		req.StartDate = strings.TrimSpace(query.From)
	}
	if strings.TrimSpace(req.EndDate) == "" {
		req.EndDate = strings.TrimSpace(query.To)
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.AuditLogs, resp.PageInfo)
}

func isAuditValidationError(err error) bool {
	return errorsIsAny(err,
		auditdomain.ErrInvalidTimeRange,
		auditdomain.ErrInvalidAction,
		auditdomain.ErrInvalidDate,
	)
}
