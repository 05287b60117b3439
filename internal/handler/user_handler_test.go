package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/domain"
	"gstdesk/internal/handler"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

func newUserHandler() (*handler.UserHandler, *mocks.MockUserService) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)
	return h, mockSvc
}

// --- Create ---

func TestUserHandler_Create_Success(t *testing.T) {
	h, mockSvc := newUserHandler()

	businessID := uuid.New()
	adminID := uuid.New()

	expected := &domain.User{
		ID:         uuid.New(),
		BusinessID: businessID,
		Email:      "priya@sharma-traders.in",
		FullName:   "Priya Sharma",
		Role:       domain.RoleMember,
		IsActive:   true,
	}

	mockSvc.On("Create", mock.Anything, businessID, mock.MatchedBy(func(input service.CreateUserInput) bool {
		return input.Email == "priya@sharma-traders.in" && input.FullName == "Priya Sharma"
	})).Return(expected, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     "priya@sharma-traders.in",
		"password":  "securepassword",
		"full_name": "Priya Sharma",
		"role":      "member",
	})
	setAuthContext(c, businessID, adminID, "admin")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Create_NoAuth(t *testing.T) {
	h, mockSvc := newUserHandler()

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     "priya@sharma-traders.in",
		"password":  "password",
		"full_name": "Priya",
		"role":      "member",
	})

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	h, mockSvc := newUserHandler()

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     "priya@sharma-traders.in",
		"password":  "short",
		"full_name": "Priya",
		"role":      "member",
	})
	setAuthContext(c, uuid.New(), uuid.New(), "admin")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID := uuid.New()

	mockSvc.On("Create", mock.Anything, businessID, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     "priya@sharma-traders.in",
		"password":  "securepassword",
		"full_name": "Priya",
		"role":      "member",
	})
	setAuthContext(c, businessID, uuid.New(), "admin")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- GetByID ---

func TestUserHandler_GetByID_Self(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID, userID := uuid.New(), uuid.New()

	mockSvc.On("GetByID", mock.Anything, businessID, userID).
		Return(&domain.User{ID: userID, BusinessID: businessID, Role: domain.RoleViewer}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/users/"+userID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, businessID, userID, "viewer")

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_GetByID_OtherUserForbidden(t *testing.T) {
	h, mockSvc := newUserHandler()
	otherID := uuid.New()

	c, w := newContext(t, http.MethodGet, "/api/v1/users/"+otherID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: otherID.String()}}
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "GetByID")
}

// --- Update ---

func TestUserHandler_Update_NonAdminCannotChangeRole(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID, userID := uuid.New(), uuid.New()

	c, w := newContext(t, http.MethodPut, "/api/v1/users/"+userID.String(), map[string]string{"role": "admin"})
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, businessID, userID, "member")

	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Update")
}

func TestUserHandler_Update_SelfName(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID, userID := uuid.New(), uuid.New()

	mockSvc.On("Update", mock.Anything, businessID, userID, mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.FullName != nil && *in.FullName == "Priya S" && in.Role == nil
	})).Return(&domain.User{ID: userID, FullName: "Priya S"}, nil)

	c, w := newContext(t, http.MethodPut, "/api/v1/users/"+userID.String(), map[string]string{"full_name": "Priya S"})
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, businessID, userID, "member")

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Update_LastAdmin(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID, adminID := uuid.New(), uuid.New()

	mockSvc.On("Update", mock.Anything, businessID, adminID, mock.Anything).Return(nil, domain.ErrLastAdmin)

	c, w := newContext(t, http.MethodPut, "/api/v1/users/"+adminID.String(), map[string]string{"role": "member"})
	c.Params = gin.Params{{Key: "id", Value: adminID.String()}}
	setAuthContext(c, businessID, adminID, "admin")

	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "LAST_ADMIN", errorCode(t, w))
}

// --- List / Delete ---

func TestUserHandler_List(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID := uuid.New()

	mockSvc.On("List", mock.Anything, businessID, 10, 5).
		Return([]domain.User{{ID: uuid.New()}, {ID: uuid.New()}}, 12, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/users?offset=10&limit=5", nil)
	setAuthContext(c, businessID, uuid.New(), "admin")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 12, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
}

func TestUserHandler_Delete_Success(t *testing.T) {
	h, mockSvc := newUserHandler()
	businessID, userID := uuid.New(), uuid.New()

	mockSvc.On("Delete", mock.Anything, businessID, userID).Return(nil)

	c, w := newContext(t, http.MethodDelete, "/api/v1/users/"+userID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, businessID, uuid.New(), "admin")

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user deleted", dataMap(t, w)["message"])
}
