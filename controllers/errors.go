package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/zest-order/catalog"
	"github.com/yeremiapane/zest-order/orders"
	"github.com/yeremiapane/zest-order/utils"
)

var (
	ErrOrderStoreUnavailable = errors.New("could not reach the order store, please try again")
	ErrInternal              = errors.New("internal server error")
)

// respondDomainError maps service errors onto the response envelope.
func respondDomainError(c *gin.Context, err error) {
	var verr orders.ValidationError
	var perr *orders.PersistenceError

	switch {
	case errors.As(err, &verr):
		utils.RespondErrorData(c, http.StatusBadRequest, errors.New(verr.Message), gin.H{"field": verr.Field})
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, catalog.ErrMenuNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, catalog.ErrCustomizationNotFound):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, orders.ErrDuplicateTransaction):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.As(err, &perr):
		utils.ErrorLogger.WithError(err).Error("order store failure")
		utils.RespondErrorData(c, http.StatusServiceUnavailable, ErrOrderStoreUnavailable, gin.H{"retry": true})
	default:
		utils.ErrorLogger.WithError(err).Error("unhandled error")
		utils.RespondError(c, http.StatusInternalServerError, ErrInternal)
	}
}
