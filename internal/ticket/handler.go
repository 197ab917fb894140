package ticket

import (
	"context"
	"net/http"
	"strconv"

	"tapin/internal/core"
	"tapin/internal/money"
	"tapin/internal/pricing"

	"github.com/gin-gonic/gin"
)

// PricingSource supplies the current tax rate and tip presets.
type PricingSource interface {
	Pricing(ctx context.Context) (pricing.Config, error)
}

type Handler struct {
	service *Service
	pricing PricingSource
}

func NewHandler(service *Service, pricing PricingSource) *Handler {
	return &Handler{service: service, pricing: pricing}
}

type ticketView struct {
	Ticket
	Grouped  []LineItem  `json:"grouped"`
	Unfired  money.Cents `json:"unfired_value"`
	Occupied bool        `json:"occupied"`
}

func view(t Ticket) ticketView {
	return ticketView{
		Ticket:   t,
		Grouped:  Grouped(t.Items),
		Unfired:  Unfired(t.Items),
		Occupied: t.Occupied(),
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
}

// --------------------------------------------------
// Floor overview
// --------------------------------------------------
func (h *Handler) Floor(c *gin.Context) {
	tables, err := h.service.Floor(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(t))
}

// --------------------------------------------------
// Items
// --------------------------------------------------
func (h *Handler) AddItem(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	t, err := h.service.Add(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(t))
}

func (h *Handler) EditItem(c *gin.Context) {
	var req struct {
		Ref      Key    `json:"ref"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Edit(c.Request.Context(), c.Param("id"), req.Ref, req.Quantity, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(t))
}

func (h *Handler) DeleteItem(c *gin.Context) {
	var req struct {
		Ref Key `json:"ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Delete(c.Request.Context(), c.Param("id"), req.Ref)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(t))
}

func (h *Handler) SetGuests(c *gin.Context) {
	var req struct {
		Guests int `json:"guests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.SetGuests(c.Request.Context(), c.Param("id"), req.Guests)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(t))
}

// --------------------------------------------------
// Fire (optional ?course=N)
// --------------------------------------------------
func (h *Handler) Fire(c *gin.Context) {
	course := 0
	if raw := c.Query("course"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course"})
			return
		}
		course = n
	}

	res, err := h.service.Fire(c.Request.Context(), c.Param("id"), c.GetString("userName"), course)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --------------------------------------------------
// Totals preview (?tip=preset2 | 18% | custom&amount=5.00)
// --------------------------------------------------
func (h *Handler) Totals(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, err := h.pricing.Pricing(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	mode, err := pricing.ParseTipMode(c.Query("tip"), c.Query("amount"), cfg)
	if err != nil {
		fail(c, err)
		return
	}

	t, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	b, err := pricing.Compute(t.Items, cfg, mode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// --------------------------------------------------
// Takeout
// --------------------------------------------------
func (h *Handler) OpenTakeout(c *gin.Context) {
	var req struct {
		Customer string `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.OpenTakeout(c.Request.Context(), req.Customer)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view(t))
}

// --------------------------------------------------
// Admin: wipe all tables
// --------------------------------------------------
func (h *Handler) WipeAll(c *gin.Context) {
	cleared, err := h.service.WipeAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
