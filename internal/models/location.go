package models

import "time"

// Location is a physical centre. ID is assigned by administrators and is independent of
// any identifier the store keeps internally. Coordinates always hold [latitude, longitude].
type Location struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Address     string    `bson:"address" json:"address"`
	Phone       string    `bson:"phone" json:"phone"`
	Email       string    `bson:"email" json:"email"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Hours       string    `bson:"hours" json:"hours"`
	Specialties []string  `bson:"specialties" json:"specialties"`
	Image       string    `bson:"image" json:"image"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
