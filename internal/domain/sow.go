package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sow-specific validation errors
var (
	ErrEmptySowID     = errors.New("sow ID cannot be empty")
	ErrEmptySowUserID = errors.New("sow user ID cannot be empty")
	ErrEmptySowTitle  = errors.New("sow title cannot be empty")
	ErrEmptySowSlides = errors.New("sow must contain at least one slide")
)

// Sow is a saved Statement-of-Work document owned by a user. The slide
// sequence is persisted as JSONB so the renderer schema can evolve without
// schema migrations.
type Sow struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	Title      string        `json:"title"`
	SowNumber  string        `json:"sow_number"`
	ClientName string        `json:"client_name"`
	Slides     []SlideRecord `json:"slides"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewSow creates a new Sow owned by the given user. It generates a new UUID
// for the sow ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewSow(userID uuid.UUID, title, sowNumber, clientName string, slides []SlideRecord) (*Sow, error) {
	sow := &Sow{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		SowNumber:  sowNumber,
		ClientName: clientName,
		Slides:     slides,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := sow.Validate(); err != nil {
		return nil, err
	}

	return sow, nil
}

// Validate checks if the Sow has valid data.
// Returns an error if any field fails validation.
func (s *Sow) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySowID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySowUserID
	}

	if s.Title == "" {
		return ErrEmptySowTitle
	}

	if len(s.Slides) == 0 {
		return ErrEmptySowSlides
	}

	for i := range s.Slides {
		if err := s.Slides[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Rename updates the sow's title and bumps the UpdatedAt timestamp.
func (s *Sow) Rename(title string) error {
	if title == "" {
		return ErrEmptySowTitle
	}
	s.Title = title
	s.UpdatedAt = time.Now().UTC()
	return nil
}
