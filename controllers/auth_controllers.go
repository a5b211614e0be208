package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/utils"
)

type AuthController struct {
	Carts *cart.Registry
}

func NewAuthController(carts *cart.Registry) *AuthController {
	return &AuthController{Carts: carts}
}

// Logout -> POST /logout. Token masuk blacklist sampai expired dan cart
// user dikosongkan.
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	expiresAt := time.Now().Add(24 * time.Hour)
	if claims, ok := middlewares.Claims(c); ok && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	userID := middlewares.UserID(c)
	ac.Carts.Close(c.Request.Context(), userID)

	utils.InfoLogger.WithField("user_id", userID).Info("user logged out")
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}
