package router

import (
	"net/http"
	"time"

	"tapin/internal/auth"
	"tapin/internal/kitchen"
	"tapin/internal/logger"
	"tapin/internal/menu"
	"tapin/internal/middleware"
	"tapin/internal/receipt"
	"tapin/internal/settings"
	"tapin/internal/split"
	"tapin/internal/ticket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries every handler the API mounts.
type Deps struct {
	Log         *logger.Logger
	CORSOrigins []string

	Auth     *auth.Handler
	Menu     *menu.Handler
	Tickets  *ticket.Handler
	Split    *split.Handler
	Kitchen  *kitchen.Handler
	Receipts *receipt.Handler
	Settings *settings.Handler

	// Health reports optional dependencies (the broker) by name.
	Health map[string]func() error
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), d.Log.GinMiddleware())

	// cors.New panics on an empty origin list; no origins means
	// same-origin only.
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		checks := gin.H{}
		code := http.StatusOK
		for name, check := range d.Health {
			if err := check(); err != nil {
				checks[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		status := "ok"
		if code != http.StatusOK {
			status = "degraded"
		}
		c.JSON(code, gin.H{"status": status, "checks": checks})
	})

	// ───────────────────────── AUTH ─────────────────────────
	r.POST("/auth/pin", d.Auth.Login)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/menu", d.Menu.List)
		authed.GET("/menu/categories", d.Menu.Categories)
		authed.GET("/settings", d.Settings.Get)
	}

	// ───────────────────────── FLOOR (servers) ─────────────────────────
	floor := r.Group("")
	floor.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleServer),
	)
	{
		floor.GET("/tables", d.Tickets.Floor)
		floor.GET("/tables/:id", d.Tickets.Get)
		floor.POST("/tables/:id/items", d.Tickets.AddItem)
		floor.PATCH("/tables/:id/items", d.Tickets.EditItem)
		floor.DELETE("/tables/:id/items", d.Tickets.DeleteItem)
		floor.PUT("/tables/:id/guests", d.Tickets.SetGuests)
		floor.POST("/tables/:id/fire", d.Tickets.Fire)
		floor.GET("/tables/:id/totals", d.Tickets.Totals)
		floor.POST("/tables/:id/checkout", d.Receipts.Checkout)
		floor.POST("/takeout", d.Tickets.OpenTakeout)

		floor.POST("/tables/:id/split/items", d.Split.StartByItem)
		floor.POST("/tables/:id/split/even", d.Split.StartEven)
		floor.GET("/split/:session", d.Split.Get)
		floor.DELETE("/split/:session", d.Split.Cancel)
		floor.POST("/split/:session/assign", d.Split.Assign)
		floor.POST("/split/:session/unassign", d.Split.Unassign)
		floor.POST("/split/:session/seats", d.Split.AddSeat)
		floor.DELETE("/split/:session/seats/:seat", d.Split.RemoveSeat)
		floor.POST("/split/:session/seats/:seat/pay", d.Split.PaySeat)
		floor.PUT("/split/:session/ways", d.Split.SetWays)
		floor.POST("/split/:session/shares/:index/pay", d.Split.PayShare)

		floor.GET("/kitchen/ready", d.Kitchen.Ready)
		floor.POST("/kitchen/orders/:id/served", d.Kitchen.MarkServed)
	}

	// ───────────────────────── KITCHEN DISPLAY ─────────────────────────
	kds := r.Group("/kitchen")
	kds.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleKitchen),
	)
	{
		kds.GET("/orders", d.Kitchen.Active)
		kds.POST("/orders/:id/ready", d.Kitchen.MarkReady)
		kds.POST("/orders/:id/clear", d.Kitchen.Clear)
	}

	// ───────────────────────── ADMIN ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		admin.GET("/receipts", d.Receipts.List)
		admin.GET("/receipts/summary", d.Receipts.Summary)
		admin.GET("/settings", d.Settings.Get)
		admin.PUT("/settings", d.Settings.Update)
		admin.POST("/users", d.Auth.CreateUser)
		admin.GET("/users", d.Auth.ListUsers)
		admin.POST("/tables/wipe", d.Tickets.WipeAll)
	}

	return r
}
