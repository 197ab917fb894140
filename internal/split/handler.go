package split

import (
	"net/http"
	"strconv"

	"tapin/internal/core"
	"tapin/internal/pricing"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func fail(c *gin.Context, err error) {
	c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error()})
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------
func (h *Handler) StartByItem(c *gin.Context) {
	session, err := h.service.StartByItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) StartEven(c *gin.Context) {
	session, err := h.service.StartEven(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) Get(c *gin.Context) {
	session, err := h.service.Session(c.Param("session"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("session")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// By item
// --------------------------------------------------
type assignRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Seat   int    `json:"seat" binding:"required"`
}

func (h *Handler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.service.Assign(c.Param("session"), req.ItemID, req.Seat)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) Unassign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.service.Unassign(c.Param("session"), req.ItemID, req.Seat)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) AddSeat(c *gin.Context) {
	session, err := h.service.AddSeat(c.Param("session"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) RemoveSeat(c *gin.Context) {
	seat, ok := intParam(c, "seat")
	if !ok {
		return
	}
	session, err := h.service.RemoveSeat(c.Param("session"), seat)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type payRequest struct {
	Tip       string `json:"tip"`
	TipAmount string `json:"tip_amount"`
}

func (h *Handler) tipMode(c *gin.Context) (pricing.TipMode, bool) {
	var req payRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return pricing.TipMode{}, false
		}
	}

	cfg, err := h.service.pricing.Pricing(c.Request.Context())
	if err != nil {
		fail(c, err)
		return pricing.TipMode{}, false
	}

	mode, err := pricing.ParseTipMode(req.Tip, req.TipAmount, cfg)
	if err != nil {
		fail(c, err)
		return pricing.TipMode{}, false
	}
	return mode, true
}

func (h *Handler) PaySeat(c *gin.Context) {
	seat, ok := intParam(c, "seat")
	if !ok {
		return
	}
	tip, ok := h.tipMode(c)
	if !ok {
		return
	}

	pay, err := h.service.PaySeat(c.Request.Context(), c.Param("session"), seat, tip, c.GetString("userName"))
	respondPayment(c, pay, err)
}

// --------------------------------------------------
// Even
// --------------------------------------------------
func (h *Handler) SetWays(c *gin.Context) {
	var req struct {
		Ways int `json:"ways" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.service.SetWays(c.Param("session"), req.Ways)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) PayShare(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	tip, ok := h.tipMode(c)
	if !ok {
		return
	}

	pay, err := h.service.PayShare(c.Request.Context(), c.Param("session"), index, tip, c.GetString("userName"))
	respondPayment(c, pay, err)
}

func respondPayment(c *gin.Context, pay *Payment, err error) {
	switch {
	case err != nil && pay != nil:
		c.JSON(core.HTTPStatus(err), gin.H{"error": err.Error(), "payment": pay})
	case err != nil:
		fail(c, err)
	default:
		c.JSON(http.StatusCreated, pay)
	}
}
