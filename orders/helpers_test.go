package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/models"
)

func rupees(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Order{}))
	return db
}

var cheese = cart.Customization{ID: "3", Name: "Cheese", Price: rupees("20"), Kind: cart.KindTopping}

// vegBurgerCart holds one plain Veg Burger and one with cheese: 120 + 140.
func vegBurgerCart() *cart.Store {
	s := cart.NewStore()
	s.AddItem("1", "Veg Burger", rupees("120"), nil)
	s.AddItem("1", "Veg Burger", rupees("120"), []cart.Customization{cheese})
	return s
}

type fakeRepo struct {
	mu       sync.Mutex
	rows     map[string]models.Order
	order    []string
	creates  int
	err      error
	onCreate func()
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]models.Order)}
}

func (f *fakeRepo) Create(_ context.Context, row *models.Order) error {
	f.mu.Lock()
	f.creates++
	hook := f.onCreate
	err := f.err
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.TransactionID == row.TransactionID {
			return ErrDuplicateTransaction
		}
	}
	f.nextID++
	row.ID = fmt.Sprintf("order-%d", f.nextID)
	f.rows[row.ID] = *row
	f.order = append(f.order, row.ID)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &row, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for i := len(f.order) - 1; i >= 0; i-- {
		if row := f.rows[f.order[i]]; row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRepo) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

var errBackendDown = errors.New("connection refused")
