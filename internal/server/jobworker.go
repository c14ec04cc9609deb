package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/internal/balance"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
)

func (s *Server) CreateJobWorker(c *gin.Context) {
	var req jobworkerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.jobWorkerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "jobworker.create", "jobworker", resp.ID.String(), map[string]any{
		"worker_number": resp.WorkerNumber,
		"name":          resp.Name,
	})

	respondCreated(c, resp)
}

func (s *Server) ListJobWorkers(c *gin.Context) {
	var query jobworkerdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.jobWorkerSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.JobWorkers, resp.PageInfo)
}

func (s *Server) GetJobWorkerByID(c *gin.Context) {
	resp, err := s.jobWorkerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateJobWorker(c *gin.Context) {
	var req jobworkerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.jobWorkerSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "jobworker.update", "jobworker", resp.ID.String(), map[string]any{
		"worker_number": resp.WorkerNumber,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteJobWorker(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.jobWorkerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "jobworker.delete", "jobworker", id, nil)
	respondDeleted(c)
}

func (s *Server) GetJobWorkerBalance(c *gin.Context) {
	resp, err := s.jobWorkerSvc.GetBalance(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateJobWorkerBalance(c *gin.Context) {
	var req balance.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.jobWorkerSvc.UpdateBalance(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "jobworker.balance_update", "jobworker", resp.ID.String(), map[string]any{
		"amount":       req.Amount,
		"type":         req.Type,
		"metal_type":   req.MetalType,
		"metal_weight": req.MetalWeight,
	})

	respondOK(c, resp)
}

func isJobWorkerValidationError(err error) bool {
	return errorsIsAny(err,
		jobworkerdomain.ErrInvalidName,
		jobworkerdomain.ErrInvalidRelation,
		jobworkerdomain.ErrInvalidPhone,
		jobworkerdomain.ErrInvalidMobile,
		jobworkerdomain.ErrInvalidEmail,
		jobworkerdomain.ErrInvalidAadhar,
		jobworkerdomain.ErrInvalidPAN,
		jobworkerdomain.ErrInvalidRating,
	)
}

func isJobWorkerNotFound(err error) bool {
	return errorsIsAny(err, jobworkerdomain.ErrNotFound, jobworkerdomain.ErrInvalidID)
}

func isJobWorkerDuplicate(err error) bool {
	return errorsIsAny(err, jobworkerdomain.ErrDuplicateNumber)
}
