package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/zest-order/utils"
)

func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		utils.InfoLogger.WithField("order_id", orderID).Debug("Generating receipt")

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.WithField("order_id", orderID).Info("Receipt exported")
		} else {
			utils.ErrorLogger.WithField("order_id", orderID).Warnf("Failed to export receipt (status %d)", c.Writer.Status())
		}
	}
}
