// Package catalog is the read side of the menu: categories, menu items and
// the customizations each item allows.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/models"
)

var (
	ErrMenuNotFound          = errors.New("menu not found")
	ErrCustomizationNotFound = errors.New("customization not available for this menu")
)

// MenuFilter narrows ListMenuItems. Zero values match everything.
type MenuFilter struct {
	CategoryID uint
	Search     string
}

// Catalog is read-only for the duration of a cart session.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.Menu, error)
	GetMenuItem(ctx context.Context, id string) (*models.Menu, error)
	ListCustomizations(ctx context.Context, menuItemID string) ([]models.Customization, error)
}

type GormCatalog struct {
	DB *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

func (g *GormCatalog) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := g.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (g *GormCatalog) ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.Menu, error) {
	q := g.DB.WithContext(ctx).Preload("Category")
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var menus []models.Menu
	if err := q.Order("name ASC").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menus, nil
}

// GetMenuItem loads a menu with its category and allowed customizations.
func (g *GormCatalog) GetMenuItem(ctx context.Context, id string) (*models.Menu, error) {
	menuID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, ErrMenuNotFound
	}

	var menu models.Menu
	err = g.DB.WithContext(ctx).
		Preload("Category").
		Preload("Customizations", func(db *gorm.DB) *gorm.DB { return db.Order("customizations.id ASC") }).
		First(&menu, menuID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("get menu: %w", err)
	}
	return &menu, nil
}

func (g *GormCatalog) ListCustomizations(ctx context.Context, menuItemID string) ([]models.Customization, error) {
	menu, err := g.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	return menu.Customizations, nil
}

// ResolveSelection looks up the chosen customization ids among those the
// menu allows, keeping selection order. Repeated ids are passed through; the
// cart collapses them.
func ResolveSelection(menu *models.Menu, ids []string) ([]cart.Customization, error) {
	allowed := make(map[string]models.Customization, len(menu.Customizations))
	for _, c := range menu.Customizations {
		allowed[c.Key()] = c
	}

	out := make([]cart.Customization, 0, len(ids))
	for _, id := range ids {
		c, ok := allowed[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCustomizationNotFound, id)
		}
		out = append(out, ToCart(c))
	}
	return out, nil
}

// ToCart converts a stored customization to the cart's value type.
func ToCart(c models.Customization) cart.Customization {
	return cart.Customization{
		ID:    c.Key(),
		Name:  c.Name,
		Price: c.Price,
		Kind:  cart.ParseKind(c.Type),
	}
}
