package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
)

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type assignOrderRequest struct {
	AssignedTo string `json:"assigned_to"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "order.create", "order", resp.ID.String(), map[string]any{
		"order_number": resp.OrderNumber,
		"customer_id":  resp.CustomerID.String(),
		"total_amount": resp.TotalAmount,
	})

	respondCreated(c, resp)
}

func (s *Server) ListOrders(c *gin.Context) {
	var query orderdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Orders, resp.PageInfo)
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var req orderdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "order.update", "order", resp.ID.String(), map[string]any{
		"order_number": resp.OrderNumber,
		"total_amount": resp.TotalAmount,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.orderSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "order.delete", "order", id, nil)
	respondDeleted(c)
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "order.status_update", "order", resp.ID.String(), map[string]any{
		"order_number": resp.OrderNumber,
		"status":       string(resp.Status),
	})

	respondOK(c, resp)
}

func (s *Server) AssignOrder(c *gin.Context) {
	var req assignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Assign(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.AssignedTo))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "order.assign", "order", resp.ID.String(), map[string]any{
		"order_number": resp.OrderNumber,
		"assigned_to":  req.AssignedTo,
	})

	respondOK(c, resp)
}

func (s *Server) PendingOrders(c *gin.Context) {
	resp, err := s.orderSvc.Pending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) ReadyOrders(c *gin.Context) {
	resp, err := s.orderSvc.Ready(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func isOrderValidationError(err error) bool {
	return errorsIsAny(err,
		orderdomain.ErrInvalidStatus,
		orderdomain.ErrEmptyItems,
		orderdomain.ErrInvalidItemName,
		orderdomain.ErrInvalidQuantity,
		orderdomain.ErrInvalidMetal,
		orderdomain.ErrInvalidPurity,
		orderdomain.ErrInvalidWeight,
		orderdomain.ErrInvalidRate,
		orderdomain.ErrInvalidMakingType,
		orderdomain.ErrInvalidGSTRate,
		orderdomain.ErrInvalidAdvance,
		orderdomain.ErrInvalidDate,
	)
}

func isOrderNotFound(err error) bool {
	return errorsIsAny(err, orderdomain.ErrNotFound, orderdomain.ErrInvalidID)
}

func isOrderDuplicate(err error) bool {
	return errorsIsAny(err, orderdomain.ErrDuplicateNumber)
}

func orderRuleMessage(err error) (string, bool) {
	if errorsIsAny(err, orderdomain.ErrAdvanceExceedsTotal) {
		return "Advance paid exceeds order total", true
	}
	return "", false
}
