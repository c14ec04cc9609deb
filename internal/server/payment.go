package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/karatledger/internal/payment/domain"
)

type updatePaymentStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req paymentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "payment.create", "payment", resp.ID.String(), map[string]any{
		"payment_number": resp.PaymentNumber,
		"payment_type":   string(resp.PaymentType),
		"amount":         resp.Amount,
	})

	respondCreated(c, resp)
}

func (s *Server) ListPayments(c *gin.Context) {
	var query paymentdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Payments, resp.PageInfo)
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdatePayment(c *gin.Context) {
	var req paymentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "payment.update", "payment", resp.ID.String(), map[string]any{
		"payment_number": resp.PaymentNumber,
	})

	respondOK(c, resp)
}

func (s *Server) UpdatePaymentStatus(c *gin.Context) {
	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "payment.status_update", "payment", resp.ID.String(), map[string]any{
		"payment_number": resp.PaymentNumber,
		"status":         string(resp.Status),
	})

	respondOK(c, resp)
}

func (s *Server) DeletePayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.paymentSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "payment.delete", "payment", id, nil)
	respondDeleted(c)
}

func (s *Server) PaymentReceipt(c *gin.Context) {
	doc, err := s.paymentSvc.RenderReceipt(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	serveDocument(c, doc.Filename, doc.Content)
}

func isPaymentValidationError(err error) bool {
	return errorsIsAny(err,
		paymentdomain.ErrInvalidPaymentType,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidStatus,
		paymentdomain.ErrInvalidDate,
		paymentdomain.ErrInvalidAttachment,
	)
}

func isPaymentNotFound(err error) bool {
	return errorsIsAny(err, paymentdomain.ErrNotFound, paymentdomain.ErrInvalidID)
}

func isPaymentDuplicate(err error) bool {
	return errorsIsAny(err, paymentdomain.ErrDuplicateNumber)
}
