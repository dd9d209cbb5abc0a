package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/google/uuid"
)

// UserService covers registration and user administration.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput is the admin-supplied registration payload.
type RegisterInput struct {
	EmployeeNumber string
	Password       string
	Role           entity.Role
	FullName       string
	Email          string
	Section        string
}

// Register creates a user. ErrEmployeeNumberTaken when the employee
// number is already registered, ErrInvalidRole on an unknown role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	_, err := s.userRepo.FindByEmployeeNumber(ctx, in.EmployeeNumber)
	if err == nil {
		return nil, ErrEmployeeNumberTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check employee number: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:             uuid.New().String(),
		EmployeeNumber: in.EmployeeNumber,
		PasswordHash:   hash,
		Role:           in.Role,
		FullName:       in.FullName,
		Email:          in.Email,
		Section:        in.Section,
		CreatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}

// Delete removes a user. An administrator may not delete their own
// record; that fails with ErrSelfDelete before any lookup.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return ErrSelfDelete
	}
	return s.userRepo.Delete(ctx, id)
}
