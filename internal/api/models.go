package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/gamification"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
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

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`
}

// DrugRequest defines the payload for creating or updating a catalog drug.
type DrugRequest struct {
	Name              string   `json:"name"         validate:"required"`
	Class             string   `json:"class"        validate:"required"`
	System            string   `json:"system"       validate:"required"`
	Mechanism         string   `json:"moa"          validate:"required"`
	Uses              []string `json:"uses"`
	SideEffects       []string `json:"side_effects"`
	Mnemonic          string   `json:"mnemonic"`
	Contraindications []string `json:"contraindications"`
	Dosage            string   `json:"dosage"`
}

// DraftDrugsRequest defines the payload for the AI drug drafting endpoint.
type DraftDrugsRequest struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=20"`
}

// NoteRequest defines the payload for creating or updating a drug note.
type NoteRequest struct {
	Note string   `json:"note" validate:"required"`
	Tags []string `json:"tags"`
}

// StartSessionRequest defines the payload for opening a study session.
type StartSessionRequest struct {
	Systems    []string `json:"systems"`
	StudyMode  string   `json:"study_mode"  validate:"required,oneof=all bookmarked unseen review"`
	TotalCards int      `json:"total_cards" validate:"omitempty,gte=0"`
}

// SessionAnswerRequest defines the payload for recording a session answer.
// Correct is a pointer so a missing field fails validation instead of
// defaulting to an incorrect answer.
type SessionAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// ReviewAnswerRequest defines the payload for answering a due review card.
type ReviewAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// AchievementsResponse pairs the static achievement catalog with the
// user's current unlock state.
type AchievementsResponse struct {
	Catalog  []gamification.Achievement `json:"catalog"`
	Unlocked []string                   `json:"unlocked"`
	Progress map[string]int             `json:"progress"`
}

// SubmitQuizRequest defines the payload for recording a completed quiz.
type SubmitQuizRequest struct {
	Score          int    `json:"score"           validate:"gte=0"`
	TotalQuestions int    `json:"total_questions" validate:"required,gte=1"`
	System         string `json:"system"`
	DrugClass      string `json:"drug_class"`
}
