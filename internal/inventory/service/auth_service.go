package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/labstock/internal/config"
	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Default admin seeded on first startup.
const (
	DefaultAdminEmployeeNumber = "ADMIN001"
	defaultAdminPassword       = "admin123"
)

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Login verifies the employee number and password and returns a signed
// access token with the user it authenticates. An unknown employee
// number and a wrong password produce the same ErrInvalidCredentials,
// so the response never reveals which one failed.
func (s *AuthService) Login(ctx context.Context, employeeNumber, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *entity.User) (string, error) {
	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    s.cfg.JWT.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

// HashPassword produces a salted bcrypt hash. Plaintext is never stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// EnsureDefaultAdmin seeds the built-in administrator account when no
// user with its employee number exists yet.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (*entity.User, error) {
	existing, err := s.userRepo.FindByEmployeeNumber(ctx, DefaultAdminEmployeeNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find default admin: %w", err)
	}

	hash, err := HashPassword(defaultAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default admin password: %w", err)
	}

	admin := &entity.User{
		ID:             uuid.New().String(),
		EmployeeNumber: DefaultAdminEmployeeNumber,
		PasswordHash:   hash,
		Role:           entity.RoleAdmin,
		FullName:       "System Administrator",
		Email:          "admin@company.com",
		Section:        "IT Administration",
		CreatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create default admin: %w", err)
	}
	return admin, nil
}
