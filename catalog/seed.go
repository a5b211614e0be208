package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/models"
)

type SeedCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SeedCustomization struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type"`
}

type SeedMenu struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"image_url"`
	Price          decimal.Decimal `json:"price"`
	Rating         float64         `json:"rating"`
	Calories       int             `json:"calories"`
	Protein        int             `json:"protein"`
	CategoryName   string          `json:"category_name"`
	Customizations []string        `json:"customizations"`
}

// SeedData is the catalog fixture format. Menus refer to categories and
// customizations by name.
type SeedData struct {
	Categories     []SeedCategory      `json:"categories"`
	Customizations []SeedCustomization `json:"customizations"`
	Menu           []SeedMenu          `json:"menu"`
}

func LoadSeedFile(path string) (*SeedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

func LoadSeed(r io.Reader) (*SeedData, error) {
	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &data, nil
}

// Seed replaces the whole catalog with data in one transaction.
func Seed(ctx context.Context, db *gorm.DB, data *SeedData, log logrus.FieldLogger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// hapus data lama, urutan mengikuti foreign key
		for _, model := range []interface{}{&models.MenuCustomization{}, &models.Menu{}, &models.Customization{}, &models.MenuCategory{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
		}

		categoryIDs := make(map[string]uint, len(data.Categories))
		for _, c := range data.Categories {
			row := models.MenuCategory{Name: c.Name, Description: c.Description}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create category %q: %w", c.Name, err)
			}
			categoryIDs[c.Name] = row.ID
		}
		log.Infof("Created %d categories", len(categoryIDs))

		customizations := make(map[string]models.Customization, len(data.Customizations))
		for _, c := range data.Customizations {
			row := models.Customization{Name: c.Name, Price: c.Price, Type: string(cart.ParseKind(c.Type))}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create customization %q: %w", c.Name, err)
			}
			customizations[c.Name] = row
		}
		log.Infof("Created %d customizations", len(customizations))

		for _, m := range data.Menu {
			categoryID, ok := categoryIDs[m.CategoryName]
			if !ok {
				return fmt.Errorf("menu %q: unknown category %q", m.Name, m.CategoryName)
			}
			menu := models.Menu{
				CategoryID:  categoryID,
				Name:        m.Name,
				Description: m.Description,
				ImageURL:    m.ImageURL,
				Price:       m.Price,
				Rating:      m.Rating,
				Calories:    m.Calories,
				Protein:     m.Protein,
			}
			if err := tx.Omit(clause.Associations).Create(&menu).Error; err != nil {
				return fmt.Errorf("create menu %q: %w", m.Name, err)
			}
			for _, name := range m.Customizations {
				c, ok := customizations[name]
				if !ok {
					return fmt.Errorf("menu %q: unknown customization %q", m.Name, name)
				}
				link := models.MenuCustomization{MenuID: menu.ID, CustomizationID: c.ID}
				if err := tx.Create(&link).Error; err != nil {
					return fmt.Errorf("link %q to %q: %w", name, m.Name, err)
				}
			}
		}
		log.Infof("Created %d menu items", len(data.Menu))
		return nil
	})
}
