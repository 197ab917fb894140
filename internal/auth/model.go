package auth

import "time"

const (
	RoleServer  = "server"
	RoleKitchen = "kitchen"
	RoleAdmin   = "admin"
)

// User is a staff member who signs in with a PIN.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PINHash   string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleServer, RoleKitchen, RoleAdmin:
		return true
	}
	return false
}
