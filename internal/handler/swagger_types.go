package handler

import (
	"time"

	"gstdesk/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	BusinessSlug string `json:"business_slug" binding:"required" example:"acme"`
	Email        string `json:"email" binding:"required" example:"admin@acme.in"`
	Password     string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RegisterBusinessRequest represents the business onboarding request body.
type RegisterBusinessRequest struct {
	Name          string `json:"name" binding:"required" example:"Acme Traders"`
	Slug          string `json:"slug" binding:"required" example:"acme"`
	GSTIN         string `json:"gstin" binding:"required" example:"29ABCDE1234F1Z5"`
	IsComposition bool   `json:"is_composition" example:"false"`
	ContactEmail  string `json:"contact_email" binding:"required" example:"accounts@acme.in"`
	AdminEmail    string `json:"admin_email" binding:"required" example:"admin@acme.in"`
	AdminPassword string `json:"admin_password" binding:"required" example:"securepassword123"`
	AdminName     string `json:"admin_name" binding:"required" example:"Priya Rao"`
}

// UpdateBusinessRequest represents the business profile update body.
type UpdateBusinessRequest struct {
	Name          *string `json:"name" example:"Acme Traders LLP"`
	GSTIN         *string `json:"gstin" example:"27AAPFU0939F1ZV"`
	IsComposition *bool   `json:"is_composition" example:"false"`
	ContactEmail  *string `json:"contact_email" example:"gst@acme.in"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"ravi@acme.in"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" binding:"required" example:"Ravi Kumar"`
	Role     domain.UserRole `json:"role" binding:"required" example:"member"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"ravi.kumar@acme.in"`
	FullName *string          `json:"full_name" example:"Ravi K"`
	Role     *domain.UserRole `json:"role" example:"viewer"`
	IsActive *bool            `json:"is_active" example:"true"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"invoice deleted"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
