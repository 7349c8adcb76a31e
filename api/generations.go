package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListGenerations returns recent generation records, newest first.
// GET /v1/generations
func (h *Handler) ListGenerations(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}

	gens, err := h.store.ListGenerations(ctx, limit)
	if err != nil {
		log.Printf("ERROR: failed to list generations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list generations"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"generations": gens,
	})
}

// GetGeneration returns a single generation record.
// GET /v1/generations/:generation_id
func (h *Handler) GetGeneration(c echo.Context) error {
	ctx := c.Request().Context()
	generationID := c.Param("generation_id")

	gen, err := h.store.GetGeneration(ctx, generationID)
	if err != nil {
		log.Printf("ERROR: failed to get generation: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get generation"})
	}
	if gen == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "generation not found"})
	}

	return c.JSON(http.StatusOK, gen)
}

// ListModels proxies the upstream model list so operators can verify
// connectivity and credentials.
// GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	ctx := c.Request().Context()

	models, err := h.models.ListModels(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list models: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"object": "list",
		"data":   models,
	})
}
