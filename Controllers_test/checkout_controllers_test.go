package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/zest-order/models"
)

type orderJSON struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TransactionID   string          `json:"transaction_id"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"status_label"`
	ShortID         string          `json:"short_id"`
	ItemCount       int             `json:"item_count"`
	Degraded        bool            `json:"degraded"`
	Items           []struct {
		MenuID             string          `json:"menu_id"`
		Name               string          `json:"name"`
		Quantity           int             `json:"quantity"`
		Price              decimal.Decimal `json:"price"`
		CustomizationPrice decimal.Decimal `json:"customization_price"`
		Customizations     []string        `json:"customizations"`
	} `json:"items"`
}

// fillVegBurgerCart: Veg Burger polos + Veg Burger extra cheese = ₹260
func fillVegBurgerCart(t *testing.T, env *testEnv, token string) {
	t.Helper()
	burger := env.menuByName(t, "Veg Burger")
	env.addItem(t, token, burger.ID)
	env.addItem(t, token, burger.ID, burger.customizationID(t, "Extra Cheese"))
}

func (e *testEnv) checkout(t *testing.T, token string, body map[string]interface{}) (int, orderJSON, envelope) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/checkout", token, body)
	var o orderJSON
	var resp envelope
	if w.Code == http.StatusCreated {
		resp = decode(t, w, &o)
	} else {
		resp = decode(t, w, nil)
	}
	return w.Code, o, resp
}

func TestCheckout_PlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")
	fillVegBurgerCart(t, env, token)

	code, order, resp := env.checkout(t, token, map[string]interface{}{"transaction_id": "UPI-20260301-0001"})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.True(t, rupees("260").Equal(order.Subtotal))
	assert.True(t, rupees("5").Equal(order.DeliveryFee))
	assert.True(t, rupees("0.5").Equal(order.Discount))
	assert.True(t, rupees("264.50").Equal(order.TotalAmount))
	assert.Equal(t, "UPI", order.PaymentMethod)
	assert.Equal(t, "Not provided", order.DeliveryAddress)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "Pending", order.StatusLabel)
	assert.Equal(t, 2, order.ItemCount)
	assert.Len(t, order.ShortID, 8)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Veg Burger", order.Items[0].Name)
	assert.Empty(t, order.Items[0].Customizations)
	assert.True(t, rupees("120").Equal(order.Items[1].Price))
	assert.True(t, rupees("20").Equal(order.Items[1].CustomizationPrice))
	assert.Equal(t, []string{"Extra Cheese"}, order.Items[1].Customizations)

	// cart dikosongkan setelah order tersimpan
	assert.Equal(t, 0, env.getCart(t, token).TotalItems)

	var count int64
	env.DB.Model(&models.Order{}).Where("user_id = ?", "user-1").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCheckout_ValidationKeepsCart(t *testing.T) {
	tests := []struct {
		name  string
		fill  bool
		body  map[string]interface{}
		field string
	}{
		{"empty cart", false, map[string]interface{}{"transaction_id": "tx-1"}, "items"},
		{"missing transaction id", true, map[string]interface{}{}, "transaction_id"},
		{"blank transaction id", true, map[string]interface{}{"transaction_id": "   "}, "transaction_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			token := tokenFor(t, "user-1")
			if tt.fill {
				fillVegBurgerCart(t, env, token)
			}

			w := env.do(t, http.MethodPost, "/checkout", token, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var data struct {
				Field string `json:"field"`
			}
			resp := decode(t, w, &data)
			assert.False(t, resp.Status)
			assert.Equal(t, tt.field, data.Field)
			assert.NotEmpty(t, resp.Message)

			if tt.fill {
				assert.Equal(t, 2, env.getCart(t, token).TotalItems)
			}
		})
	}
}

func TestCheckout_DuplicateTransaction(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")

	fillVegBurgerCart(t, env, token)
	code, _, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-dup"})
	require.Equal(t, http.StatusCreated, code)

	fillVegBurgerCart(t, env, token)
	code, _, _ = env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-dup"})
	assert.Equal(t, http.StatusConflict, code)

	// cart tetap ada supaya user bisa coba lagi
	assert.Equal(t, 2, env.getCart(t, token).TotalItems)
}

func TestCheckout_SecondSubmitFindsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")
	fillVegBurgerCart(t, env, token)

	code, _, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-1"})
	require.Equal(t, http.StatusCreated, code)
	code, _, _ = env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-2"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckout_AddressPrecedence(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")

	w := env.do(t, http.MethodPatch, "/profile", token, map[string]interface{}{"address": "12 MG Road, Bengaluru"})
	require.Equal(t, http.StatusOK, w.Code)

	fillVegBurgerCart(t, env, token)
	_, order, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-profile"})
	assert.Equal(t, "12 MG Road, Bengaluru", order.DeliveryAddress)

	fillVegBurgerCart(t, env, token)
	_, order, _ = env.checkout(t, token, map[string]interface{}{
		"transaction_id":   "tx-request",
		"delivery_address": "Flat 4B, Koramangala",
		"payment_method":   "Card",
	})
	assert.Equal(t, "Flat 4B, Koramangala", order.DeliveryAddress)
	assert.Equal(t, "Card", order.PaymentMethod)
}

func TestCheckout_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")
	fillVegBurgerCart(t, env, token)

	require.NoError(t, env.DB.Migrator().DropTable(&models.Order{}))

	w := env.do(t, http.MethodPost, "/checkout", token, map[string]interface{}{"transaction_id": "tx-1"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var data struct {
		Retry bool `json:"retry"`
	}
	decode(t, w, &data)
	assert.True(t, data.Retry)

	assert.Equal(t, 2, env.getCart(t, token).TotalItems)

	// setelah store pulih, retry berhasil
	require.NoError(t, env.DB.AutoMigrate(&models.Order{}))
	code, order, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-1"})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, rupees("264.50").Equal(order.TotalAmount))
}

func TestCheckout_RateLimitedPerUser(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "user-1")

	// limiter: 10 per menit, burst 10
	for i := 0; i < 10; i++ {
		code, _, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx"})
		require.Equal(t, http.StatusBadRequest, code)
	}
	w := env.do(t, http.MethodPost, "/checkout", token, map[string]interface{}{"transaction_id": "tx"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// user lain tidak terpengaruh
	code, _, _ := env.checkout(t, tokenFor(t, "user-2"), map[string]interface{}{"transaction_id": "tx"})
	assert.Equal(t, http.StatusBadRequest, code)
}
