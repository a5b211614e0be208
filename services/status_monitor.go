// Package services holds background workers that run next to the HTTP server.
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/models"
)

// StatusUpdate is pushed to the owner when an order changes status.
type StatusUpdate struct {
	OrderID     string             `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	StatusLabel string             `json:"status_label"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// StatusNotifier receives the updates; *hub.Hub satisfies it.
type StatusNotifier interface {
	BroadcastOrderStatus(userID string, update interface{})
}

// StatusMonitor polls the orders table for status changes made by the
// order management process and forwards them to the customers.
type StatusMonitor struct {
	DB       *gorm.DB
	Notifier StatusNotifier
	Interval time.Duration
	// BatchSize caps the rows handled per poll.
	BatchSize int

	log logrus.FieldLogger
	// cursor is the (updated_at, id) of the last row seen
	cursor   time.Time
	cursorID string
	stop     chan struct{}
	done     chan struct{}
}

func NewStatusMonitor(db *gorm.DB, notifier StatusNotifier, log logrus.FieldLogger) *StatusMonitor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StatusMonitor{
		DB:        db,
		Notifier:  notifier,
		Interval:  2 * time.Second,
		BatchSize: 100,
		log:       log,
		cursor:    time.Now().UTC(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (m *StatusMonitor) Start() {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.Poll(context.Background()); err != nil {
					m.log.WithError(err).Warn("order status poll failed")
				}
			case <-m.stop:
				return
			}
		}
	}()
	m.log.Info("Order status monitor started")
}

// Stop blocks until the polling goroutine has exited.
func (m *StatusMonitor) Stop() {
	close(m.stop)
	<-m.done
}

// Poll forwards every order updated after the cursor whose row was touched
// after creation, and advances the cursor. Rows sharing one updated_at are
// paged by id. It returns the number forwarded.
func (m *StatusMonitor) Poll(ctx context.Context) (int, error) {
	var rows []models.Order
	err := m.DB.WithContext(ctx).
		Select("id", "user_id", "status", "created_at", "updated_at").
		Where("updated_at > ? OR (updated_at = ? AND id > ?)", m.cursor, m.cursor, m.cursorID).
		Order("updated_at ASC").
		Order("id ASC").
		Limit(m.BatchSize).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		m.cursor, m.cursorID = row.UpdatedAt, row.ID
		// order baru sudah dikirim lewat order_placed
		if !row.UpdatedAt.After(row.CreatedAt) {
			continue
		}
		m.Notifier.BroadcastOrderStatus(row.UserID, StatusUpdate{
			OrderID:     row.ID,
			Status:      row.Status,
			StatusLabel: row.Status.Label(),
			UpdatedAt:   row.UpdatedAt,
		})
		sent++
	}
	if sent > 0 {
		m.log.WithField("count", sent).Debug("order status changes forwarded")
	}
	return sent, nil
}
