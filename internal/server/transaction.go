package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
)

type dateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type reportResponse struct {
	Success       bool                            `json:"success"`
	Count         int                             `json:"count"`
	Date          string                          `json:"date,omitempty"`
	FinancialYear string                          `json:"financial_year,omitempty"`
	DateRange     *dateRange                      `json:"date_range,omitempty"`
	Totals        transactiondomain.Totals        `json:"totals"`
	Data          []transactiondomain.Transaction `json:"data"`
}

func newReportResponse(report transactiondomain.Report) reportResponse {
	rows := report.Transactions
	if rows == nil {
		rows = []transactiondomain.Transaction{}
	}
	return reportResponse{
		Success: true,
		Count:   len(rows),
		Totals:  report.Totals,
		Data:    rows,
	}
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req transactiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "transaction.create", "transaction", resp.ID.String(), map[string]any{
		"transaction_number": resp.TransactionNumber,
		"type":               string(resp.Type),
		"amount":             resp.Amount,
	})

	respondCreated(c, resp)
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query transactiondomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Transactions, resp.PageInfo)
}

func (s *Server) GetTransactionByID(c *gin.Context) {
	resp, err := s.transactionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) DayBook(c *gin.Context) {
	date := strings.TrimSpace(c.Param("date"))
	report, err := s.transactionSvc.DayBook(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := newReportResponse(report)
	resp.Date = date
	c.JSON(http.StatusOK, resp)
}

func (s *Server) TransactionsByFinancialYear(c *gin.Context) {
	year := strings.TrimSpace(c.Param("year"))
	report, err := s.transactionSvc.ByFinancialYear(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := newReportResponse(report)
	resp.FinancialYear = year
	c.JSON(http.StatusOK, resp)
}

func (s *Server) TransactionsByDateRange(c *gin.Context) {
	start := strings.TrimSpace(c.Query("startDate"))
	end := strings.TrimSpace(c.Query("endDate"))
	report, err := s.transactionSvc.ByDateRange(c.Request.Context(), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := newReportResponse(report)
	resp.DateRange = &dateRange{StartDate: start, EndDate: end}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ReconcileTransaction(c *gin.Context) {
	resp, err := s.transactionSvc.Reconcile(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "transaction.reconcile", "transaction", resp.ID.String(), map[string]any{
		"transaction_number": resp.TransactionNumber,
	})

	respondOK(c, resp)
}

func isTransactionValidationError(err error) bool {
	return errorsIsAny(err,
		transactiondomain.ErrInvalidType,
		transactiondomain.ErrInvalidAmount,
		transactiondomain.ErrInvalidDate,
		transactiondomain.ErrInvalidFiscalYear,
	)
}

func isTransactionNotFound(err error) bool {
	return errorsIsAny(err, transactiondomain.ErrNotFound, transactiondomain.ErrInvalidID)
}

func transactionRuleMessage(err error) (string, bool) {
	switch {
	case errorsIsAny(err, transactiondomain.ErrMissingDateRange):
		return "Please provide startDate and endDate", true
	case errorsIsAny(err, transactiondomain.ErrInvalidDateRange):
		return "startDate must not be after endDate", true
	default:
		return "", false
	}
}
