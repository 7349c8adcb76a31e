package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capstudio/captionforge/domain"
)

// GenerateCaptions handles the single-shot generation request.
// POST /v1/captions
func (h *Handler) GenerateCaptions(c echo.Context) error {
	if h.config.OpenAIAPIKey == "" {
		return h.missingCredential(c)
	}

	out := h.svc.Generate(c.Request().Context(), h.bindBrief(c))
	return c.JSON(http.StatusOK, out)
}

// GenerateCaptionsJudged handles the n-best + judge generation request.
// POST /v1/captions/judged
func (h *Handler) GenerateCaptionsJudged(c echo.Context) error {
	if h.config.OpenAIAPIKey == "" {
		return h.missingCredential(c)
	}

	out := h.svc.GenerateJudged(c.Request().Context(), h.bindBrief(c))
	return c.JSON(http.StatusOK, out)
}

// bindBrief decodes the request body. Malformed bodies degrade to an empty
// brief, which normalization fills with defaults; briefs never error.
func (h *Handler) bindBrief(c echo.Context) domain.Brief {
	var brief domain.Brief
	if err := c.Bind(&brief); err != nil {
		return domain.Brief{}
	}
	return brief
}

func (h *Handler) missingCredential(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "missing upstream credential",
	})
}
