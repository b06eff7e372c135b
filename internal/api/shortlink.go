package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ShortLinkHandler redirects /s/<code> to the recipe
type ShortLinkHandler struct {
	shortLinks service.IShortLinkService
}

func NewShortLinkHandler(shortLinks service.IShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{shortLinks: shortLinks}
}

func (h *ShortLinkHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/s/:code", h.Resolve)
}

func (h *ShortLinkHandler) Resolve(c *gin.Context) {
	id, err := h.shortLinks.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/recipes/%d/", id))
}
