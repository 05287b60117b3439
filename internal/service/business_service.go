package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// RegisterBusinessInput is the DTO for onboarding a business with its first admin.
type RegisterBusinessInput struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	GSTIN         string `json:"gstin" binding:"required,len=15"`
	IsComposition bool   `json:"is_composition"`
	ContactEmail  string `json:"contact_email" binding:"required,email"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	AdminName     string `json:"admin_name" binding:"required"`
}

// UpdateBusinessInput is the DTO for updating a business profile.
type UpdateBusinessInput struct {
	Name          *string `json:"name"`
	GSTIN         *string `json:"gstin"`
	IsComposition *bool   `json:"is_composition"`
	ContactEmail  *string `json:"contact_email"`
}

// RegistrationResult is returned after onboarding.
type RegistrationResult struct {
	Business *domain.Business `json:"business"`
	Admin    *domain.User     `json:"admin"`
}

// BusinessService defines the business management contract.
type BusinessService interface {
	Register(ctx context.Context, input RegisterBusinessInput) (*RegistrationResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBusinessInput) (*domain.Business, error)
}

type businessService struct {
	repo     port.BusinessRepository
	userRepo port.UserRepository
}

// NewBusinessService creates a new BusinessService implementation.
func NewBusinessService(repo port.BusinessRepository, userRepo port.UserRepository) BusinessService {
	return &businessService{repo: repo, userRepo: userRepo}
}

func (s *businessService) Register(ctx context.Context, input RegisterBusinessInput) (*RegistrationResult, error) {
	gstin := strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if !gst.ValidGSTIN(gstin) {
		return nil, domain.ErrInvalidGSTIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	business := &domain.Business{
		Name:          input.Name,
		Slug:          strings.ToLower(input.Slug),
		GSTIN:         gstin,
		StateCode:     gst.GSTINState(gstin),
		IsComposition: input.IsComposition,
		ContactEmail:  input.ContactEmail,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	admin := &domain.User{
		BusinessID:   business.ID,
		Email:        strings.ToLower(input.AdminEmail),
		PasswordHash: string(hash),
		FullName:     input.AdminName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("businessService.Register: %w", err)
	}

	return &RegistrationResult{Business: business, Admin: admin}, nil
}

func (s *businessService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits the business profile. Changing the GSTIN moves the business to
// the GSTIN's state, which changes the treatment of documents created afterwards.
func (s *businessService) Update(ctx context.Context, id uuid.UUID, input UpdateBusinessInput) (*domain.Business, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.GSTIN != nil {
		gstin := strings.ToUpper(strings.TrimSpace(*input.GSTIN))
		if !gst.ValidGSTIN(gstin) {
			return nil, domain.ErrInvalidGSTIN
		}
		business.GSTIN = gstin
		business.StateCode = gst.GSTINState(gstin)
	}
	if input.IsComposition != nil {
		business.IsComposition = *input.IsComposition
	}
	if input.ContactEmail != nil {
		business.ContactEmail = *input.ContactEmail
	}

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}
