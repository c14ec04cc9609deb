package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
)

func (s *Server) CreateItem(c *gin.Context) {
	var req itemdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.itemSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "item.create", "item", resp.ID.String(), map[string]any{
		"item_code": resp.ItemCode,
		"name":      resp.Name,
	})

	respondCreated(c, resp)
}

func (s *Server) ListItems(c *gin.Context) {
	var query itemdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.itemSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondPage(c, resp.Items, resp.PageInfo)
}

func (s *Server) GetItemByID(c *gin.Context) {
	resp, err := s.itemSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateItem(c *gin.Context) {
	var req itemdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.itemSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "item.update", "item", resp.ID.String(), map[string]any{
		"item_code": resp.ItemCode,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.itemSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "item.delete", "item", id, nil)
	respondDeleted(c)
}

func (s *Server) UpdateItemStock(c *gin.Context) {
	var req itemdomain.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.itemSvc.UpdateStock(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "item.stock_update", "item", resp.ID.String(), map[string]any{
		"operation":      req.Operation,
		"quantity":       req.Quantity,
		"stock_quantity": resp.StockQuantity,
	})

	respondOK(c, resp)
}

func (s *Server) LowStockItems(c *gin.Context) {
	resp, err := s.itemSvc.LowStock(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) SearchItems(c *gin.Context) {
	resp, err := s.itemSvc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func isItemValidationError(err error) bool {
	return errorsIsAny(err,
		itemdomain.ErrInvalidName,
		itemdomain.ErrInvalidCategory,
		itemdomain.ErrInvalidMetal,
		itemdomain.ErrInvalidPurity,
		itemdomain.ErrInvalidWeight,
		itemdomain.ErrInvalidMakingType,
		itemdomain.ErrInvalidCharges,
		itemdomain.ErrInvalidQuantity,
		itemdomain.ErrInvalidStockOperation,
	)
}

func isItemNotFound(err error) bool {
	return errorsIsAny(err, itemdomain.ErrNotFound, itemdomain.ErrInvalidID)
}

func isItemDuplicate(err error) bool {
	return errorsIsAny(err, itemdomain.ErrDuplicateItem)
}

func itemRuleMessage(err error) (string, bool) {
	switch {
	case errorsIsAny(err, itemdomain.ErrInsufficientStock):
		return "Insufficient stock", true
	case errorsIsAny(err, itemdomain.ErrEmptyQuery):
		return "Please provide a search query", true
	default:
		return "", false
	}
}
