package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billdomain "github.com/smallbiznis/karatledger/internal/bill/domain"
)

func (s *Server) CreateBill(c *gin.Context) {
	var req billdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.create", "bill", resp.ID.String(), map[string]any{
		"bill_number":  resp.BillNumber,
		"bill_type":    string(resp.BillType),
		"customer_id":  resp.CustomerID.String(),
		"total_amount": resp.TotalAmount,
	})

	respondCreated(c, resp)
}

func (s *Server) ListBills(c *gin.Context) {
	var query billdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Bills, resp.PageInfo)
}

func (s *Server) GetBillByID(c *gin.Context) {
	resp, err := s.billSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req billdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.update", "bill", resp.ID.String(), map[string]any{
		"bill_number":  resp.BillNumber,
		"total_amount": resp.TotalAmount,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteBill(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	err := s.billSvc.Delete(c.Request.Context(), id)
	if errors.Is(err, billdomain.ErrFinalizedImmutable) {
		AbortWithError(c, withMessage(err, http.StatusBadRequest, "Cannot delete finalized bill"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.delete", "bill", id, nil)
	respondDeleted(c)
}

func (s *Server) FinalizeBill(c *gin.Context) {
	resp, err := s.billSvc.Finalize(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.finalize", "bill", resp.ID.String(), map[string]any{
		"bill_number": resp.BillNumber,
	})

	respondOK(c, resp)
}

func (s *Server) CancelBill(c *gin.Context) {
	resp, err := s.billSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.cancel", "bill", resp.ID.String(), map[string]any{
		"bill_number": resp.BillNumber,
	})

	respondOK(c, resp)
}

func (s *Server) RecordBillPayment(c *gin.Context) {
	var req billdomain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.RecordPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "bill.payment", "bill", resp.ID.String(), map[string]any{
		"bill_number":    resp.BillNumber,
		"amount":         req.Amount,
		"payment_method": req.PaymentMethod,
		"balance_amount": resp.BalanceAmount,
	})

	respondOK(c, resp)
}

func (s *Server) UnpaidBills(c *gin.Context) {
	resp, err := s.billSvc.Unpaid(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) BillPDF(c *gin.Context) {
	doc, err := s.billSvc.RenderPDF(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	serveDocument(c, doc.Filename, doc.Content)
}

// serveDocument sends a rendered pdf as a download.
func serveDocument(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

func isBillValidationError(err error) bool {
	return errorsIsAny(err,
		billdomain.ErrInvalidBillType,
		billdomain.ErrInvalidStatus,
		billdomain.ErrEmptyItems,
		billdomain.ErrInvalidItemName,
		billdomain.ErrInvalidQuantity,
		billdomain.ErrInvalidWeight,
		billdomain.ErrInvalidRate,
		billdomain.ErrInvalidGSTRate,
		billdomain.ErrInvalidDate,
		billdomain.ErrInvalidAmount,
	)
}

func isBillNotFound(err error) bool {
	return errorsIsAny(err, billdomain.ErrNotFound, billdomain.ErrInvalidID)
}

func isBillDuplicate(err error) bool {
	return errorsIsAny(err, billdomain.ErrDuplicateNumber)
}

func billRuleMessage(err error) (string, bool) {
	switch {
	case errorsIsAny(err, billdomain.ErrAlreadyFinalized):
		return "Bill is already finalized", true
	case errorsIsAny(err, billdomain.ErrFinalizedImmutable):
		return "Cannot update finalized bill", true
	case errorsIsAny(err, billdomain.ErrBillCancelled):
		return "Bill is cancelled", true
	case errorsIsAny(err, billdomain.ErrAmountExceedsBalance):
		return "Payment amount exceeds balance", true
	default:
		return "", false
	}
}
