package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type listResponse[T any] struct {
	Success    bool                 `json:"success"`
	Count      int                  `json:"count"`
	Pagination *pagination.PageInfo `json:"pagination,omitempty"`
	Data       []T                  `json:"data"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// respondDeleted mirrors the empty object clients expect after a delete.
func respondDeleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, listResponse[T]{Success: true, Count: len(items), Data: items})
}

func respondPage[T any](c *gin.Context, items []T, page pagination.PageInfo) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, listResponse[T]{Success: true, Count: len(items), Pagination: &page, Data: items})
}
