package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/hub"
	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/pricing"
	"github.com/yeremiapane/zest-order/utils"
)

type CartSocketController struct {
	Carts    *cart.Registry
	Hub      *hub.Hub
	Pricing  pricing.Policy
	Upgrader websocket.Upgrader
}

func NewCartSocketController(carts *cart.Registry, h *hub.Hub, policy pricing.Policy, allowOrigin string) *CartSocketController {
	return &CartSocketController{
		Carts:   carts,
		Hub:     h,
		Pricing: policy,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowOrigin == "" || allowOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowOrigin
			},
		},
	}
}

// CartSocket -> GET /ws/cart?token=..., kirim state awal lalu update cart
func (sc *CartSocketController) CartSocket(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := sc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	store := sc.Carts.Open(c.Request.Context(), userID)
	err = sc.Hub.RegisterWithState(ws, userID, func() hub.Message {
		return hub.Message{Event: hub.EventCartState, Data: NewCartView(store.Snapshot(), sc.Pricing)}
	})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", userID).Warn("failed to send initial cart state")
		ws.Close()
		return
	}
	defer sc.Hub.Unregister(ws)

	// client tidak mengirim apa pun, baca hanya untuk mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
