package dto

import "encoding/json"

// UpsertContentRequest replaces the content stored under a key.
type UpsertContentRequest struct {
	Type string          `json:"type" validate:"required,oneof=hero services features testimonials general"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// UpsertLocationRequest replaces the location stored under an id.
type UpsertLocationRequest struct {
	Name        string    `json:"name" validate:"required"`
	Address     string    `json:"address" validate:"required"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Hours       string    `json:"hours"`
	Specialties []string  `json:"specialties"`
	Image       string    `json:"image"`
}
