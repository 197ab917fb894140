package kitchen

import (
	"net/http"
	"time"

	"tapin/internal/core"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// orderCard is an order as the kitchen display draws it.
type orderCard struct {
	Order
	Urgency    Urgency `json:"urgency"`
	AgeMinutes int     `json:"age_minutes"`
	Chit       string  `json:"chit"`
}

func cards(orders []Order, now time.Time) []orderCard {
	out := make([]orderCard, 0, len(orders))
	for _, o := range orders {
		age := now.Sub(o.CreatedAt)
		out = append(out, orderCard{
			Order:      o,
			Urgency:    UrgencyFor(age),
			AgeMinutes: int(age.Minutes()),
			Chit:       FormatChit(o),
		})
	}
	return out
}

// --------------------------------------------------
// Kitchen display
// --------------------------------------------------
func (h *Handler) Active(c *gin.Context) {
	orders, err := h.service.Active(c.Request.Context())
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": cards(orders, h.service.now())})
}

// Ready is the server-side list of food waiting at the pass.
func (h *Handler) Ready(c *gin.Context) {
	orders, err := h.service.Ready(c.Request.Context())
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": cards(orders, h.service.now())})
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------
func (h *Handler) MarkReady(c *gin.Context) {
	o, err := h.service.MarkReady(c.Request.Context(), c.Param("id"))
	respond(c, o, err)
}

func (h *Handler) MarkServed(c *gin.Context) {
	o, err := h.service.MarkServed(c.Request.Context(), c.Param("id"))
	respond(c, o, err)
}

func (h *Handler) Clear(c *gin.Context) {
	o, err := h.service.Clear(c.Request.Context(), c.Param("id"))
	respond(c, o, err)
}

func respond(c *gin.Context, o Order, err error) {
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}
