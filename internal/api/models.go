package api

import (
	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/infographic"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// GeneratePresentationRequest carries the free-text inputs for document
// generation. Kind selects the document shape; when omitted it is sniffed
// from the description text. Prompt is the legacy single-field form and is
// treated as the project description when that field is absent.
type GeneratePresentationRequest struct {
	Kind               string `json:"kind,omitempty"`
	Prompt             string `json:"prompt,omitempty"`
	ProjectDescription string `json:"projectDescription,omitempty"`
	Requirements       string `json:"requirements,omitempty"`
	Deliverables       string `json:"deliverables,omitempty"`
	Duration           string `json:"duration,omitempty"`
	Budget             string `json:"budget,omitempty"`
	SupportService     string `json:"supportService,omitempty"`
	LegalTerms         string `json:"legalTerms,omitempty"`
	TerminationClause  string `json:"terminationClause,omitempty"`
	ClientName         string `json:"clientName,omitempty"`
}

// GenerateInfographRequest carries the presentation an infographic should
// be derived from.
type GenerateInfographRequest struct {
	Presentation *domain.GeneratedDocument `json:"presentation" validate:"required"`
}

// GeneratePresentationResponse wraps a generated document, with the
// infographic already appended as the closing slide.
type GeneratePresentationResponse struct {
	Success bool                      `json:"success"`
	Data    *domain.GeneratedDocument `json:"data"`
}

// GenerateInfographResponse wraps a standalone infographic.
type GenerateInfographResponse struct {
	Success   bool                   `json:"success"`
	Infograph *infographic.Infograph `json:"infograph"`
}

// CreateSowRequest defines the payload for saving a generated SOW.
type CreateSowRequest struct {
	Title      string               `json:"title"      validate:"required"`
	SowNumber  string               `json:"sow_number"`
	ClientName string               `json:"client_name"`
	Slides     []domain.SlideRecord `json:"slides"     validate:"required,min=1"`
}

// UpdateSowRequest defines the payload for modifying a saved SOW. All
// fields are optional; absent fields keep their current value.
type UpdateSowRequest struct {
	Title      *string              `json:"title,omitempty"`
	SowNumber  *string              `json:"sow_number,omitempty"`
	ClientName *string              `json:"client_name,omitempty"`
	Slides     []domain.SlideRecord `json:"slides,omitempty"`
}

// SowListResponse wraps the sow collection for the list endpoint.
type SowListResponse struct {
	Sows []*domain.Sow `json:"sows"`
}
