package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
)

func (s *Server) CreateAgent(c *gin.Context) {
	var req agentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "agent.create", "agent", resp.ID.String(), map[string]any{
		"agent_number": resp.AgentNumber,
		"name":         resp.Name,
	})

	respondCreated(c, resp)
}

func (s *Server) ListAgents(c *gin.Context) {
	var query agentdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agentSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Agents, resp.PageInfo)
}

func (s *Server) GetAgentByID(c *gin.Context) {
	resp, err := s.agentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateAgent(c *gin.Context) {
	var req agentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agentSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "agent.update", "agent", resp.ID.String(), map[string]any{
		"agent_number": resp.AgentNumber,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteAgent(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.agentSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "agent.delete", "agent", id, nil)
	respondDeleted(c)
}

func (s *Server) GetAgentStats(c *gin.Context) {
	resp, err := s.agentSvc.Stats(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func isAgentValidationError(err error) bool {
	return errorsIsAny(err,
		agentdomain.ErrInvalidName,
		agentdomain.ErrInvalidPhone,
		agentdomain.ErrInvalidMobile,
		agentdomain.ErrInvalidEmail,
		agentdomain.ErrInvalidPAN,
		agentdomain.ErrInvalidCommissionType,
		agentdomain.ErrInvalidCommissionRate,
		agentdomain.ErrInvalidJoinDate,
	)
}

func isAgentNotFound(err error) bool {
	return errorsIsAny(err, agentdomain.ErrNotFound, agentdomain.ErrInvalidID)
}

func isAgentDuplicate(err error) bool {
	return errorsIsAny(err, agentdomain.ErrDuplicateNumber)
}
