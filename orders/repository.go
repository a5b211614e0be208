package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/models"
)

// HistoryLimit caps how many orders ListByUser returns.
const HistoryLimit = 100

// Repository is the order store. Rows are append-only from this codebase.
type Repository interface {
	// Create assigns ID and CreatedAt and persists the row.
	Create(ctx context.Context, row *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser returns the user's latest HistoryLimit orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type GormRepository struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db, Now: time.Now}
}

func (r *GormRepository) Create(ctx context.Context, row *models.Order) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := r.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).
			Where("transaction_id = ?", row.TransactionID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check transaction id: %w", err)
		}
		if count > 0 {
			return ErrDuplicateTransaction
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var row models.Order
	if err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return &row, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var rows []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("order_date DESC").
		Limit(HistoryLimit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return rows, nil
}
