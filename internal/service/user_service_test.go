package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/domain"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

func TestUserService_Create_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	businessID := uuid.New()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), businessID, service.CreateUserInput{
		Email:    "New@Test.com",
		Password: "securepassword123",
		FullName: "New User",
		Role:     domain.RoleMember,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@test.com", user.Email)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, businessID, user.BusinessID)
	repo.AssertExpectations(t)
}

func TestUserService_Create_Rejects(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mocks.MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

		user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
			Email: "existing@test.com", Password: "password123", FullName: "Test User", Role: domain.RoleMember,
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("unknown role", func(t *testing.T) {
		repo := new(mocks.MockUserRepo)
		svc := service.NewUserService(repo)

		_, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
			Email: "x@test.com", Password: "password123", FullName: "X", Role: "owner",
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientRole)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_GetByID(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	businessID := uuid.New()
	userID := uuid.New()
	expected := &domain.User{ID: userID, BusinessID: businessID, Email: "user@test.com"}
	repo.On("GetByID", mock.Anything, businessID, userID).Return(expected, nil)
	repo.On("GetByID", mock.Anything, businessID, mock.Anything).Return(nil, domain.ErrNotFound)

	user, err := svc.GetByID(context.Background(), businessID, userID)
	require.NoError(t, err)
	assert.Equal(t, expected, user)

	_, err = svc.GetByID(context.Background(), businessID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	businessID := uuid.New()
	users := []domain.User{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("ListByBusiness", mock.Anything, businessID, 0, 20).Return(users, 2, nil)

	got, total, err := svc.List(context.Background(), businessID, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)
}

func TestUserService_Update_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	businessID := uuid.New()
	existing := &domain.User{ID: uuid.New(), BusinessID: businessID, Email: "old@test.com", Role: domain.RoleMember, IsActive: true}
	repo.On("GetByID", mock.Anything, businessID, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	name := "Renamed"
	role := domain.RoleViewer
	user, err := svc.Update(context.Background(), businessID, existing.ID, service.UpdateUserInput{FullName: &name, Role: &role})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.FullName)
	assert.Equal(t, domain.RoleViewer, user.Role)
	repo.AssertNotCalled(t, "ListAdmins", mock.Anything, mock.Anything)
}

func TestUserService_Update_LastAdmin(t *testing.T) {
	businessID := uuid.New()
	admin := domain.User{ID: uuid.New(), BusinessID: businessID, Role: domain.RoleAdmin, IsActive: true}
	member := domain.RoleMember
	inactive := false

	tests := []struct {
		name  string
		input service.UpdateUserInput
	}{
		{"demote", service.UpdateUserInput{Role: &member}},
		{"deactivate", service.UpdateUserInput{IsActive: &inactive}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockUserRepo)
			svc := service.NewUserService(repo)
			u := admin
			repo.On("GetByID", mock.Anything, businessID, admin.ID).Return(&u, nil)
			repo.On("ListAdmins", mock.Anything, businessID).Return([]domain.User{admin}, nil)

			_, err := svc.Update(context.Background(), businessID, admin.ID, tt.input)

			assert.ErrorIs(t, err, domain.ErrLastAdmin)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_Update_DemoteWithAnotherAdmin(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	businessID := uuid.New()
	admin := &domain.User{ID: uuid.New(), BusinessID: businessID, Role: domain.RoleAdmin, IsActive: true}
	other := domain.User{ID: uuid.New(), BusinessID: businessID, Role: domain.RoleAdmin, IsActive: true}
	repo.On("GetByID", mock.Anything, businessID, admin.ID).Return(admin, nil)
	repo.On("ListAdmins", mock.Anything, businessID).Return([]domain.User{*admin, other}, nil)
	repo.On("Update", mock.Anything, admin).Return(nil)

	member := domain.RoleMember
	user, err := svc.Update(context.Background(), businessID, admin.ID, service.UpdateUserInput{Role: &member})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, user.Role)
}

func TestUserService_Delete(t *testing.T) {
	businessID := uuid.New()

	t.Run("member", func(t *testing.T) {
		repo := new(mocks.MockUserRepo)
		svc := service.NewUserService(repo)
		u := &domain.User{ID: uuid.New(), BusinessID: businessID, Role: domain.RoleMember, IsActive: true}
		repo.On("GetByID", mock.Anything, businessID, u.ID).Return(u, nil)
		repo.On("Delete", mock.Anything, businessID, u.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), businessID, u.ID))
		repo.AssertExpectations(t)
	})

	t.Run("last admin", func(t *testing.T) {
		repo := new(mocks.MockUserRepo)
		svc := service.NewUserService(repo)
		u := &domain.User{ID: uuid.New(), BusinessID: businessID, Role: domain.RoleAdmin, IsActive: true}
		repo.On("GetByID", mock.Anything, businessID, u.ID).Return(u, nil)
		repo.On("ListAdmins", mock.Anything, businessID).Return([]domain.User{*u}, nil)

		err := svc.Delete(context.Background(), businessID, u.ID)
		assert.ErrorIs(t, err, domain.ErrLastAdmin)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mocks.MockUserRepo)
		svc := service.NewUserService(repo)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, businessID, id).Return(nil, domain.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), businessID, id), domain.ErrNotFound)
	})
}
