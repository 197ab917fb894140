package auth

import (
	"context"
	"errors"
	"strings"

	"tapin/internal/core"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid PIN")
)

const pinLength = 4

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// REGISTER
func (s *Service) Register(ctx context.Context, name, pin, role string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.Validation("name is required")
	}
	if err := validatePIN(pin); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleServer
	}
	if !ValidRole(role) {
		return nil, core.Validation("unknown role %q", role)
	}

	// PINs identify the user at login, so they must be unique.
	if taken, err := s.find(ctx, pin); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, core.Validation("PIN already in use")
	}

	hashedPIN, err := bcrypt.GenerateFromPassword(
		[]byte(pin),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:    name,
		PINHash: string(hashedPIN),
		Role:    role,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LOGIN
func (s *Service) LoginWithPIN(ctx context.Context, pin string) (*User, error) {
	if validatePIN(pin) != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.find(ctx, pin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// BootstrapAdmin creates the first admin when no users exist yet.
func (s *Service) BootstrapAdmin(ctx context.Context, name, pin string) (*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return nil, nil
	}
	return s.Register(ctx, name, pin, RoleAdmin)
}

func (s *Service) find(ctx context.Context, pin string) (*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if bcrypt.CompareHashAndPassword([]byte(users[i].PINHash), []byte(pin)) == nil {
			return &users[i], nil
		}
	}
	return nil, nil
}

func validatePIN(pin string) error {
	if len(pin) != pinLength {
		return core.Validation("PIN must be %d digits", pinLength)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return core.Validation("PIN must be %d digits", pinLength)
		}
	}
	return nil
}
