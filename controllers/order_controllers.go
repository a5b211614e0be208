package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/orders"
	"github.com/yeremiapane/zest-order/utils"
)

type OrderController struct {
	History *orders.History
	Receipt orders.Receipt
}

func NewOrderController(history *orders.History, receipt orders.Receipt) *OrderController {
	return &OrderController{History: history, Receipt: receipt}
}

// OrderView adds the display fields of the history screen.
type OrderView struct {
	orders.Order
	ShortID     string `json:"short_id"`
	StatusLabel string `json:"status_label"`
	ItemCount   int    `json:"item_count"`
}

func NewOrderView(o orders.Order) OrderView {
	return OrderView{
		Order:       o,
		ShortID:     orders.ShortID(o),
		StatusLabel: o.Status.Label(),
		ItemCount:   o.ItemCount(),
	}
}

// GetMyOrders -> GET /orders, newest first
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	list, err := oc.History.ListOrders(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	views := make([]OrderView, len(list))
	for i, o := range list {
		views[i] = NewOrderView(o)
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", views)
}

// GetOrderByID -> GET /orders/:order_id
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.History.GetOrder(c.Request.Context(), middlewares.UserID(c), c.Param("order_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", NewOrderView(*order))
}

// DownloadReceipt -> GET /orders/:order_id/receipt
func (oc *OrderController) DownloadReceipt(c *gin.Context) {
	order, err := oc.History.GetOrder(c.Request.Context(), middlewares.UserID(c), c.Param("order_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orders.ReceiptFilename(*order)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(oc.Receipt.Text(*order)))
}

// DownloadReceiptPDF -> GET /orders/:order_id/receipt.pdf
func (oc *OrderController) DownloadReceiptPDF(c *gin.Context) {
	order, err := oc.History.GetOrder(c.Request.Context(), middlewares.UserID(c), c.Param("order_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	pdf, err := oc.Receipt.PDF(*order)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orders.ReceiptPDFFilename(*order)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
