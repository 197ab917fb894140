package menu

import (
	"net/http"
	"strings"

	"tapin/internal/core"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// List available items (order screen)
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	group := Group(strings.ToUpper(c.Query("group")))
	if group != "" {
		if _, ok := Categories[group]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown menu group"})
			return
		}
	}

	items, err := h.service.Find(
		c.Request.Context(),
		group,
		c.Query("category"),
		c.Query("q"),
	)
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// --------------------------------------------------
// Category tabs per group
// --------------------------------------------------
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, Categories)
}
