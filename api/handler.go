// Package api provides HTTP handlers for the caption service.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capstudio/captionforge/config"
	"github.com/capstudio/captionforge/llm"
	"github.com/capstudio/captionforge/service"
	"github.com/capstudio/captionforge/store"
)

// ModelLister is the slice of the LLM client the models passthrough needs.
type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.Model, error)
}

// Handler handles HTTP requests.
type Handler struct {
	svc    *service.Service
	store  store.Store
	models ModelLister
	config *config.Config
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, st store.Store, models ModelLister, cfg *config.Config) *Handler {
	return &Handler{
		svc:    svc,
		store:  st,
		models: models,
		config: cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/captions", h.GenerateCaptions)
	e.POST("/v1/captions/judged", h.GenerateCaptionsJudged)

	e.GET("/v1/generations", h.ListGenerations)
	e.GET("/v1/generations/:generation_id", h.GetGeneration)

	e.GET("/v1/models", h.ListModels)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
