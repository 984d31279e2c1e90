// Package models holds the persisted documents. Every type carries bson tags
// for the Mongo store and gorm tags for the SQL store; nested values become
// JSON columns in SQL.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded in every document.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func NewID() string { return uuid.NewString() }

// Stamp assigns an ID and creation time when missing and bumps UpdatedAt.
func (b *Base) Stamp(now time.Time) {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// BeforeCreate is the gorm hook mirroring Stamp for the SQL store.
func (b *Base) BeforeCreate(*gorm.DB) error {
	b.Stamp(time.Now().UTC())
	return nil
}

// Dimensions are in centimetres.
type Dimensions struct {
	Width  float64 `bson:"width" json:"width" validate:"gte=0"`
	Height float64 `bson:"height" json:"height" validate:"gte=0"`
}
