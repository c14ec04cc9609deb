package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	loandomain "github.com/smallbiznis/karatledger/internal/loan/domain"
)

func (s *Server) CreateLoan(c *gin.Context) {
	var req loandomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "loan.create", "loan", resp.ID.String(), map[string]any{
		"loan_number":  resp.LoanNumber,
		"loan_type":    string(resp.LoanType),
		"total_amount": resp.TotalAmount,
	})

	respondCreated(c, resp)
}

func (s *Server) ListLoans(c *gin.Context) {
	var query loandomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Loans, resp.PageInfo)
}

func (s *Server) GetLoanByID(c *gin.Context) {
	resp, err := s.loanSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateLoan(c *gin.Context) {
	var req loandomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "loan.update", "loan", resp.ID.String(), map[string]any{
		"loan_number": resp.LoanNumber,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteLoan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.loanSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "loan.delete", "loan", id, nil)
	respondDeleted(c)
}

func (s *Server) PendingLoans(c *gin.Context) {
	resp, err := s.loanSvc.Pending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) RecordLoanPayment(c *gin.Context) {
	var req loandomain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.RecordPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "loan.payment", "loan", resp.ID.String(), map[string]any{
		"loan_number":    resp.LoanNumber,
		"amount":         req.Amount,
		"payment_method": req.PaymentMethod,
		"status":         string(resp.Status),
	})

	respondOK(c, resp)
}

func (s *Server) ReturnLoanMetal(c *gin.Context) {
	var req loandomain.ReturnMetalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.ReturnMetal(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "loan.return_metal", "loan", resp.ID.String(), map[string]any{
		"loan_number": resp.LoanNumber,
		"weight":      req.Weight,
		"status":      string(resp.Status),
	})

	respondOK(c, resp)
}

func isLoanValidationError(err error) bool {
	return errorsIsAny(err,
		loandomain.ErrInvalidLoanType,
		loandomain.ErrInvalidParty,
		loandomain.ErrInvalidAmount,
		loandomain.ErrInvalidInterest,
		loandomain.ErrInvalidDate,
		loandomain.ErrInvalidMetal,
		loandomain.ErrInvalidPurity,
		loandomain.ErrInvalidWeight,
		loandomain.ErrInvalidStatus,
	)
}

func isLoanNotFound(err error) bool {
	return errorsIsAny(err, loandomain.ErrNotFound, loandomain.ErrInvalidID)
}

func isLoanDuplicate(err error) bool {
	return errorsIsAny(err, loandomain.ErrDuplicateNumber)
}

func loanRuleMessage(err error) (string, bool) {
	switch {
	case errorsIsAny(err, loandomain.ErrNotMetalLoan):
		return "This is not a metal loan", true
	case errorsIsAny(err, loandomain.ErrAmountExceedsBalance):
		return "Payment amount exceeds balance", true
	default:
		return "", false
	}
}
