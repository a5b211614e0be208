package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Menu struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CategoryID     uint            `gorm:"not null;index" json:"category_id"`
	Category       MenuCategory    `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name           string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL       string          `gorm:"type:varchar(255)" json:"image_url"`
	Rating         float64         `json:"rating"`
	Calories       int             `json:"calories"`
	Protein        int             `json:"protein"`
	Customizations []Customization `gorm:"many2many:menu_customizations;" json:"customizations,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

// Key is the menu id as used by cart line identities.
func (m Menu) Key() string {
	return strconv.FormatUint(uint64(m.ID), 10)
}
