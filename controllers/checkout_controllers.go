package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/hub"
	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/models"
	"github.com/yeremiapane/zest-order/orders"
	"github.com/yeremiapane/zest-order/utils"
)

type CheckoutController struct {
	DB            *gorm.DB
	Carts         *cart.Registry
	Checkout      *orders.Checkout
	Hub           *hub.Hub
	PaymentMethod string
}

func NewCheckoutController(db *gorm.DB, carts *cart.Registry, checkout *orders.Checkout, h *hub.Hub, paymentMethod string) *CheckoutController {
	return &CheckoutController{DB: db, Carts: carts, Checkout: checkout, Hub: h, PaymentMethod: paymentMethod}
}

type checkoutRequest struct {
	TransactionID   string `json:"transaction_id"`
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address"`
}

// PlaceOrder -> POST /checkout
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := middlewares.UserID(c)
	address, err := cc.deliveryAddress(c, userID, req.DeliveryAddress)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", userID).Error("failed to load customer profile")
		utils.RespondErrorData(c, http.StatusServiceUnavailable, ErrOrderStoreUnavailable, gin.H{"retry": true})
		return
	}

	method := req.PaymentMethod
	if strings.TrimSpace(method) == "" {
		method = cc.PaymentMethod
	}

	store := cc.Carts.Open(c.Request.Context(), userID)
	order, err := cc.Checkout.PlaceOrder(c.Request.Context(), store, orders.CheckoutRequest{
		UserID:          userID,
		TransactionID:   req.TransactionID,
		PaymentMethod:   method,
		DeliveryAddress: address,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	view := NewOrderView(*order)
	if cc.Hub != nil {
		cc.Hub.BroadcastOrderPlaced(userID, view)
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", view)
}

// deliveryAddress: request body, then the saved profile, then the placeholder.
func (cc *CheckoutController) deliveryAddress(c *gin.Context, userID, requested string) (string, error) {
	if addr := strings.TrimSpace(requested); addr != "" {
		return addr, nil
	}

	var customer models.Customer
	err := cc.DB.WithContext(c.Request.Context()).First(&customer, "id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if addr := strings.TrimSpace(customer.Address); addr != "" {
		return addr, nil
	}
	return orders.DefaultDeliveryAddress, nil
}
