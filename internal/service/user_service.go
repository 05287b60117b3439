package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gstdesk/internal/domain"
	"gstdesk/internal/port"
)

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	Email    *string          `json:"email"`
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, businessID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, businessID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, businessID, userID uuid.UUID) error
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, businessID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidUserRoles[input.Role] {
		return nil, domain.ErrInsufficientRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		BusinessID:   businessID,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, businessID, userID)
}

func (s *userService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.repo.ListByBusiness(ctx, businessID, offset, limit)
}

func (s *userService) Update(ctx context.Context, businessID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	wasAdmin := user.Role == domain.RoleAdmin && user.IsActive

	if input.Email != nil {
		user.Email = strings.ToLower(*input.Email)
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		if !domain.ValidUserRoles[*input.Role] {
			return nil, domain.ErrInsufficientRole
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if wasAdmin && (user.Role != domain.RoleAdmin || !user.IsActive) {
		if err := s.ensureAnotherAdmin(ctx, businessID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, businessID, userID uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin && user.IsActive {
		if err := s.ensureAnotherAdmin(ctx, businessID, userID); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, businessID, userID)
}

// ensureAnotherAdmin fails when userID is the last active admin of the business.
// Reminders are addressed to admins, so a business must always keep one.
func (s *userService) ensureAnotherAdmin(ctx context.Context, businessID, userID uuid.UUID) error {
	admins, err := s.repo.ListAdmins(ctx, businessID)
	if err != nil {
		return fmt.Errorf("userService.ensureAnotherAdmin: %w", err)
	}
	for i := range admins {
		if admins[i].ID != userID {
			return nil
		}
	}
	return domain.ErrLastAdmin
}
