package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"` // uniqueness is case-insensitive, enforced in the handlers
	Schedule  string    `json:"schedule"`
	DayOfWeek string    `json:"day_of_week"`

	LocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"location_id"`
	Location   Location  `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}

// ClientGroup links a client to a class group.
type ClientGroup struct {
	ClientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"client_id"`
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`

	Client Client `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"-"`
	Group  Group  `gorm:"foreignKey:GroupID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ClientGroup) TableName() string { return "client_groups" }
