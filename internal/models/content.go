package models

import (
	"encoding/json"
	"time"
)

// ContentType groups editable site content.
type ContentType string

const (
	ContentHero         ContentType = "hero"
	ContentServices     ContentType = "services"
	ContentFeatures     ContentType = "features"
	ContentTestimonials ContentType = "testimonials"
	ContentGeneral      ContentType = "general"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentHero, ContentServices, ContentFeatures, ContentTestimonials, ContentGeneral:
		return true
	}
	return false
}

// Content is an editable blob identified by Key. Data is stored as opaque JSON.
type Content struct {
	Key         string          `json:"key"`
	Type        ContentType     `json:"type"`
	Data        json.RawMessage `json:"data"`
	LastUpdated time.Time       `json:"lastUpdated"`
	UpdatedBy   *string         `json:"updatedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
