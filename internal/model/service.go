package model

import "github.com/google/uuid"

// Service describes an offering a business sells. DurationMinutes and
// Price are informational only and are not enforced against a booking's
// time span.
type Service struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Active          bool       `json:"active"`
	DurationMinutes int        `json:"duration_minutes"`
	Price           float64    `json:"price"`
}
