package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/models"
	"github.com/yeremiapane/zest-order/utils"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	// join table dengan struct sendiri supaya seed bisa menulis langsung
	if err := db.SetupJoinTable(&models.Menu{}, "Customizations", &models.MenuCustomization{}); err != nil {
		return fmt.Errorf("setup menu_customizations: %w", err)
	}

	err := db.AutoMigrate(
		&models.MenuCategory{},
		&models.Customization{},
		&models.Menu{},
		&models.MenuCustomization{},
		&models.Customer{},
		&models.Order{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.Println("AutoMigrate completed.")
	}
	return nil
}
