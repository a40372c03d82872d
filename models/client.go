package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus is the tri-state payment light shown for a client.
type PaymentStatus string

const (
	PaymentStatusGreen  PaymentStatus = "green"
	PaymentStatusYellow PaymentStatus = "yellow"
	PaymentStatusRed    PaymentStatus = "red"
)

// MethodOfPayment is how the client pays the recurring fee.
type MethodOfPayment string

const (
	MethodCash     MethodOfPayment = "cash"
	MethodTransfer MethodOfPayment = "transfer"
)

type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name     string `gorm:"not null" json:"name"`
	Surname  string `gorm:"not null" json:"surname"`
	Dni      string `gorm:"not null;uniqueIndex" json:"dni"` // digits only, unique across active and inactive clients
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	// No column default here: a default:true tag would make gorm drop a
	// false value from the INSERT and resurrect a soft-deleted client.
	// Every create path sets the flag explicitly.
	IsActive bool `gorm:"index" json:"is_active"`

	BirthDate       *time.Time      `json:"birth_date"`
	PaymentDate     *time.Time      `json:"payment_date"` // scheduled recurring payment date
	LastPayment     *time.Time      `json:"last_payment"`
	MethodOfPayment MethodOfPayment `gorm:"type:varchar(20)" json:"method_of_payment"`

	// PaymentStatus is a cached projection of (PaymentDate, LastPayment, now)
	// maintained by the reconciler. It may be stale between runs; callers that
	// need a current value must go through services.ClassifyPayment.
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);default:'red'" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initialize UUID before creating
func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
