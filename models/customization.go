package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Customization: topping, side, size, crust, ...
type Customization struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);unique;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Type      string          `gorm:"type:varchar(20);not null;default:'other'" json:"type"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (c Customization) Key() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}

// MenuCustomization is the join table between menus and their allowed customizations.
type MenuCustomization struct {
	MenuID          uint `gorm:"primaryKey"`
	CustomizationID uint `gorm:"primaryKey"`
}
