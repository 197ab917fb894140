package receipt

import (
	"net/http"

	"tapin/internal/core"
	"tapin/internal/money"
	"tapin/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkoutRequest struct {
	Method    string `json:"method" binding:"required"`
	Tip       string `json:"tip"`
	TipAmount string `json:"tip_amount"`
	Tendered  string `json:"tendered"`
}

// --------------------------------------------------
// Checkout
// --------------------------------------------------
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	cfg, err := h.service.settings.Get(ctx)
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	tip, err := pricing.ParseTipMode(req.Tip, req.TipAmount, cfg.Pricing())
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	var tendered money.Cents
	if req.Tendered != "" {
		d, err := decimal.NewFromString(req.Tendered)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tendered amount"})
			return
		}
		tendered = money.Cents(d.Shift(2).Round(0).IntPart())
	}

	res, err := h.service.Checkout(ctx, CheckoutRequest{
		TableID:    c.Param("id"),
		ServerName: c.GetString("userName"),
		Method:     req.Method,
		Tip:        tip,
		Tendered:   tendered,
	})

	switch {
	case err != nil && res != nil:
		// paid and recorded, but the table is still showing items
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error(), "receipt": res.Receipt})
	case err != nil:
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, res)
	}
}

// --------------------------------------------------
// Admin reports
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	receipts, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": receipts})
}

func (h *Handler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}
