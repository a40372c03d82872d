package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null;uniqueIndex" json:"name"` // uniqueness is case-insensitive, enforced in the handlers
	Address string    `json:"address"`
	Phone   string    `json:"phone"`

	Groups []Group `gorm:"foreignKey:LocationID" json:"groups,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ClientLocation links a client to a location. Junction rows carry no state
// of their own; the sync service replaces them wholesale.
type ClientLocation struct {
	ClientID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"client_id"`
	LocationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"location_id"`

	Client   Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"-"`
	Location Location `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ClientLocation) TableName() string { return "client_locations" }
