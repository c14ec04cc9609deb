package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/internal/balance"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "customer.create", "customer", resp.ID.String(), map[string]any{
		"customer_number": resp.CustomerNumber,
		"name":            resp.Name,
	})

	respondCreated(c, resp)
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query customerdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Customers, resp.PageInfo)
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "customer.update", "customer", resp.ID.String(), map[string]any{
		"customer_number": resp.CustomerNumber,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "customer.delete", "customer", id, nil)
	respondDeleted(c)
}

func (s *Server) SearchCustomers(c *gin.Context) {
	resp, err := s.customerSvc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) GetCustomerBalance(c *gin.Context) {
	resp, err := s.customerSvc.GetBalance(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateCustomerBalance(c *gin.Context) {
	var req balance.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.UpdateBalance(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "customer.balance_update", "customer", resp.ID.String(), map[string]any{
		"amount":       req.Amount,
		"type":         req.Type,
		"metal_type":   req.MetalType,
		"metal_weight": req.MetalWeight,
	})

	respondOK(c, resp)
}

func isCustomerValidationError(err error) bool {
	return errorsIsAny(err,
		customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidRelation,
		customerdomain.ErrInvalidPhone,
		customerdomain.ErrInvalidMobile,
		customerdomain.ErrInvalidEmail,
		customerdomain.ErrInvalidAadhar,
		customerdomain.ErrInvalidPAN,
		customerdomain.ErrInvalidOpeningDate,
	)
}

func isCustomerNotFound(err error) bool {
	return errorsIsAny(err, customerdomain.ErrNotFound, customerdomain.ErrInvalidID)
}

func isCustomerDuplicate(err error) bool {
	return errorsIsAny(err, customerdomain.ErrDuplicateNumber)
}

func customerRuleMessage(err error) (string, bool) {
	if errorsIsAny(err, customerdomain.ErrEmptyQuery) {
		return "Please provide a search query", true
	}
	return "", false
}
