package port

import (
	"context"

	"github.com/google/uuid"

	"gstdesk/internal/domain"
)

// BusinessRepository defines the contract for business persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	List(ctx context.Context, offset, limit int) ([]domain.Business, int, error)
	Update(ctx context.Context, business *domain.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for user persistence.
// All query methods include businessID to enforce isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, businessID uuid.UUID, email string) (*domain.User, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	ListAdmins(ctx context.Context, businessID uuid.UUID) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, businessID, userID uuid.UUID) error
}
