package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ratebookdomain "github.com/smallbiznis/karatledger/internal/ratebook/domain"
)

const defaultRateType = "sellingRate"

func (s *Server) CreateRateBook(c *gin.Context) {
	var req ratebookdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateBookSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "ratebook.create", "ratebook", resp.ID.String(), map[string]any{
		"date": resp.Date.Format("2006-01-02"),
	})

	respondCreated(c, resp)
}

func (s *Server) ListRateBooks(c *gin.Context) {
	resp, err := s.rateBookSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) GetRateBookByID(c *gin.Context) {
	resp, err := s.rateBookSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateRateBook(c *gin.Context) {
	var req ratebookdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateBookSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "ratebook.update", "ratebook", resp.ID.String(), map[string]any{
		"date": resp.Date.Format("2006-01-02"),
	})

	respondOK(c, resp)
}

func (s *Server) DeleteRateBook(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.rateBookSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "ratebook.delete", "ratebook", id, nil)
	respondDeleted(c)
}

func (s *Server) LatestRateBook(c *gin.Context) {
	resp, err := s.rateBookSvc.Latest(c.Request.Context())
	if errors.Is(err, ratebookdomain.ErrNotFound) {
		AbortWithError(c, withMessage(err, http.StatusNotFound, "No rate book found"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) RateBookByDate(c *gin.Context) {
	date := strings.TrimSpace(c.Param("date"))
	resp, err := s.rateBookSvc.ByDate(c.Request.Context(), date)
	if errors.Is(err, ratebookdomain.ErrNotFound) {
		AbortWithError(c, withMessage(err, http.StatusNotFound, fmt.Sprintf("No rate book found for date %s", date)))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) GetRate(c *gin.Context) {
	metal := strings.TrimSpace(c.Param("metal"))
	purity := strings.TrimSpace(c.Param("purity"))
	rateType := c.DefaultQuery("type", defaultRateType)

	resp, err := s.rateBookSvc.Rate(c.Request.Context(), metal, purity, rateType)
	if errors.Is(err, ratebookdomain.ErrRateNotFound) {
		AbortWithError(c, withMessage(err, http.StatusNotFound, fmt.Sprintf("No rate found for %s with purity %s", metal, purity)))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func isRateBookValidationError(err error) bool {
	return errorsIsAny(err,
		ratebookdomain.ErrInvalidDate,
		ratebookdomain.ErrInvalidMetal,
		ratebookdomain.ErrInvalidPurity,
		ratebookdomain.ErrInvalidRate,
		ratebookdomain.ErrInvalidUnit,
		ratebookdomain.ErrInvalidRateType,
		ratebookdomain.ErrInvalidGSTRate,
	)
}

func isRateBookNotFound(err error) bool {
	return errorsIsAny(err, ratebookdomain.ErrNotFound, ratebookdomain.ErrInvalidID, ratebookdomain.ErrRateNotFound)
}

func rateBookRuleMessage(err error) (string, bool) {
	if errorsIsAny(err, ratebookdomain.ErrDuplicateDate) {
		return "Rate book for this date already exists", true
	}
	return "", false
}
