package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(service)
	r.POST("/auth/pin", h.Login)
	r.POST("/admin/users", h.CreateUser)

	return r
}

func post(r *gin.Engine, path string, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := NewService(NewInMemoryUserRepository())
	service.Register(context.Background(), "Ana", "4821", RoleServer)
	r := setupTestRouter(service)

	w := post(r, "/auth/pin", map[string]string{"pin": "4821"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}
}

func TestLoginWrongPIN(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := setupTestRouter(NewService(NewInMemoryUserRepository()))

	if w := post(r, "/auth/pin", map[string]string{"pin": "0000"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestCreateUserMissingFields(t *testing.T) {
	r := setupTestRouter(NewService(NewInMemoryUserRepository()))

	if w := post(r, "/admin/users", map[string]string{"name": "Ana"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w := post(r, "/admin/users", map[string]string{"name": "Ana", "pin": "12"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w := post(r, "/admin/users", map[string]string{"name": "Ana", "pin": "1234", "role": "kitchen"}); w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
}
