package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/store"
	"github.com/labstack/echo/v4"
)

type colorRequest struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// handleListColors returns the caller's palette.
func (s *Server) handleListColors(c echo.Context) error {
	colors, err := s.store.ListColors(c.Request().Context(), userID(c))
	if err != nil {
		logger.Error("color list failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, colors)
}

// handleCreateColor stores a new palette entry. Duplicates are fine.
func (s *Server) handleCreateColor(c echo.Context) error {
	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Name == "" || req.Hex == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and hex are required"})
	}

	color, err := s.store.CreateColor(c.Request().Context(), userID(c), req.Name, req.Hex)
	if err != nil {
		logger.Error("color create failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, color)
}

// handleUpdateColor overwrites both fields of a palette entry.
func (s *Server) handleUpdateColor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "color not found"})
	}

	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	color, err := s.store.UpdateColor(c.Request().Context(), userID(c), id, req.Name, req.Hex)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "color not found"})
		}
		logger.Error("color update failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, color)
}

// handleDeleteColor removes a palette entry.
func (s *Server) handleDeleteColor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "color not found"})
	}

	if err := s.store.DeleteColor(c.Request().Context(), userID(c), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "color not found"})
		}
		logger.Error("color delete failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "color deleted"})
}
