package auth

import (
	"context"
	"errors"
	"testing"

	"tapin/internal/core"
)

func TestPINIsHashedBeforeSaving(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)

	pin := "4821"

	_, err := service.Register(context.Background(), "Ana", pin, RoleServer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users, _ := repo.List(context.Background())
	if len(users) != 1 {
		t.Fatalf("user not found")
	}

	if users[0].PINHash == pin {
		t.Fatalf("PIN was stored in plain text")
	}
}

func TestRegisterValidation(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	cases := []struct{ name, pin, role string }{
		{"", "1234", RoleServer},
		{"Ana", "123", RoleServer},
		{"Ana", "12a4", RoleServer},
		{"Ana", "1234", "chef"},
	}
	for _, tc := range cases {
		if _, err := service.Register(ctx, tc.name, tc.pin, tc.role); !core.IsValidation(err) {
			t.Errorf("%+v: expected validation error, got %v", tc, err)
		}
	}

	if _, err := service.Register(ctx, "Ana", "1234", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Register(ctx, "Ben", "1234", RoleKitchen); !core.IsValidation(err) {
		t.Fatalf("expected duplicate PIN to be rejected, got %v", err)
	}
}

func TestLoginWithPIN(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	service.Register(ctx, "Ana", "1111", RoleServer)
	service.Register(ctx, "Kai", "2222", RoleKitchen)

	user, err := service.LoginWithPIN(ctx, "2222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Kai" || user.Role != RoleKitchen {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := service.LoginWithPIN(ctx, "9999"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := service.LoginWithPIN(ctx, "abc"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestBootstrapAdminOnlyOnce(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	admin, err := service.BootstrapAdmin(ctx, "Owner", "0000")
	if err != nil || admin == nil || admin.Role != RoleAdmin {
		t.Fatalf("expected admin, got %+v, %v", admin, err)
	}

	again, err := service.BootstrapAdmin(ctx, "Owner", "0001")
	if err != nil || again != nil {
		t.Fatalf("expected no second admin, got %+v, %v", again, err)
	}
}
