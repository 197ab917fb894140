package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tapin/internal/auth"
	"tapin/internal/kitchen"
	"tapin/internal/logger"
	"tapin/internal/menu"
	"tapin/internal/receipt"
	"tapin/internal/settings"
	"tapin/internal/split"
	"tapin/internal/ticket"

	"github.com/gin-gonic/gin"
)

type testApp struct {
	router *gin.Engine
	users  *auth.Service
}

func newTestApp(t *testing.T, health map[string]func() error) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	log := logger.Nop()

	users := auth.NewService(auth.NewInMemoryUserRepository())
	menuSvc := menu.NewService(menu.NewInMemoryRepository(menu.Starter()...))
	settingsSvc := settings.NewService(settings.NewInMemoryStore())

	kitchenSvc, err := kitchen.NewService(kitchen.NewInMemoryStore(), nil, 1, log)
	if err != nil {
		t.Fatalf("kitchen: %v", err)
	}

	tickets := ticket.NewInMemoryStore()
	ticketSvc := ticket.NewService(tickets, menuSvc, kitchenSvc, log)
	receiptSvc := receipt.NewService(receipt.NewInMemoryStore(), tickets, settingsSvc, nil, log)
	splitSvc := split.NewService(tickets, receiptSvc, settingsSvc, log)

	r := NewRouter(Deps{
		Log:         log,
		CORSOrigins: []string{"http://localhost:5173"},
		Auth:        auth.NewHandler(users),
		Menu:        menu.NewHandler(menuSvc),
		Tickets:     ticket.NewHandler(ticketSvc, settingsSvc),
		Split:       split.NewHandler(splitSvc),
		Kitchen:     kitchen.NewHandler(kitchenSvc),
		Receipts:    receipt.NewHandler(receiptSvc),
		Settings:    settings.NewHandler(settingsSvc),
		Health:      health,
	})
	return &testApp{router: r, users: users}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, name, pin, role string) string {
	t.Helper()
	if _, err := a.users.Register(context.Background(), name, pin, role); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	w := a.do(t, http.MethodPost, "/auth/pin", "", gin.H{"pin": pin})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", name, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestNewRouterWithoutCORSOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(Deps{Log: logger.Nop()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://elsewhere.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header, got %q", got)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
}

func TestHealthReportsFailingDependency(t *testing.T) {
	app := newTestApp(t, map[string]func() error{
		"broker": func() error { return errors.New("rabbitmq connection is closed") },
	})

	w := app.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRoleGroups(t *testing.T) {
	app := newTestApp(t, nil)
	server := app.login(t, "Ana", "1111", auth.RoleServer)
	cook := app.login(t, "Bo", "2222", auth.RoleKitchen)
	admin := app.login(t, "Cy", "3333", auth.RoleAdmin)

	cases := []struct {
		name, method, path, token string
		want                      int
	}{
		{"anonymous menu", http.MethodGet, "/menu", "", http.StatusUnauthorized},
		{"server menu", http.MethodGet, "/menu", server, http.StatusOK},
		{"server floor", http.MethodGet, "/tables", server, http.StatusOK},
		{"kitchen floor", http.MethodGet, "/tables", cook, http.StatusForbidden},
		{"kitchen orders", http.MethodGet, "/kitchen/orders", cook, http.StatusOK},
		{"server kitchen orders", http.MethodGet, "/kitchen/orders", server, http.StatusForbidden},
		{"server ready list", http.MethodGet, "/kitchen/ready", server, http.StatusOK},
		{"server receipts", http.MethodGet, "/admin/receipts", server, http.StatusForbidden},
		{"admin receipts", http.MethodGet, "/admin/receipts", admin, http.StatusOK},
		{"admin floor", http.MethodGet, "/tables", admin, http.StatusOK},
		{"admin kitchen", http.MethodGet, "/kitchen/orders", admin, http.StatusOK},
	}

	for _, tc := range cases {
		if w := app.do(t, tc.method, tc.path, tc.token, nil); w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

func TestOrderToCheckoutFlow(t *testing.T) {
	app := newTestApp(t, nil)
	server := app.login(t, "Ana", "1111", auth.RoleServer)
	cook := app.login(t, "Bo", "2222", auth.RoleKitchen)

	w := app.do(t, http.MethodPost, "/tables/T1/items", server, gin.H{"name": "Burger", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}

	if w = app.do(t, http.MethodPost, "/tables/T1/fire", server, nil); w.Code != http.StatusOK {
		t.Fatalf("fire: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/kitchen/orders", cook, nil)
	var resp struct {
		Orders []struct {
			ID         string `json:"id"`
			ServerName string `json:"server_name"`
		} `json:"orders"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	cards := resp.Orders
	if len(cards) != 1 || cards[0].ServerName != "Ana" {
		t.Fatalf("expected one order from Ana, got %s", w.Body.String())
	}

	if w = app.do(t, http.MethodPost, "/kitchen/orders/"+cards[0].ID+"/ready", cook, nil); w.Code != http.StatusOK {
		t.Fatalf("ready: %d %s", w.Code, w.Body.String())
	}
	if w = app.do(t, http.MethodPost, "/kitchen/orders/"+cards[0].ID+"/served", server, nil); w.Code != http.StatusOK {
		t.Fatalf("served: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, "/tables/T1/checkout", server, gin.H{"method": receipt.MethodCreditCard, "tip": "18%"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/tables/T1", server, nil)
	var view struct {
		Occupied bool `json:"occupied"`
	}
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Occupied {
		t.Fatalf("table should be cleared after checkout: %s", w.Body.String())
	}
}
