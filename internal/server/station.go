package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	stationdomain "github.com/smallbiznis/karatledger/internal/station/domain"
)

func (s *Server) CreateStation(c *gin.Context) {
	var req stationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.stationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "station.create", "station", resp.ID.String(), map[string]any{
		"name": resp.Name,
		"code": resp.Code,
	})

	respondCreated(c, resp)
}

type listStationsQuery struct {
	Active bool `form:"active"`
}

func (s *Server) ListStations(c *gin.Context) {
	var query listStationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.stationSvc.List(c.Request.Context(), query.Active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp)
}

func (s *Server) GetStationByID(c *gin.Context) {
	resp, err := s.stationSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateStation(c *gin.Context) {
	var req stationdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.stationSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "station.update", "station", resp.ID.String(), map[string]any{
		"name": resp.Name,
		"code": resp.Code,
	})

	respondOK(c, resp)
}

func (s *Server) DeleteStation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.stationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "station.delete", "station", id, nil)
	respondDeleted(c)
}

func isStationValidationError(err error) bool {
	return errorsIsAny(err,
		stationdomain.ErrInvalidName,
		stationdomain.ErrInvalidCode,
		stationdomain.ErrInvalidEmail,
		stationdomain.ErrInvalidPincode,
	)
}

func isStationNotFound(err error) bool {
	return errorsIsAny(err, stationdomain.ErrNotFound, stationdomain.ErrInvalidID)
}

func isStationDuplicate(err error) bool {
	return errorsIsAny(err, stationdomain.ErrDuplicate)
}
