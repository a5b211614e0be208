package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/catalog"
	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/models"
	"github.com/yeremiapane/zest-order/pricing"
	"github.com/yeremiapane/zest-order/utils"
)

type CartController struct {
	Carts   *cart.Registry
	Catalog catalog.Catalog
	Pricing pricing.Policy
}

func NewCartController(carts *cart.Registry, cat catalog.Catalog, policy pricing.Policy) *CartController {
	return &CartController{Carts: carts, Catalog: cat, Pricing: policy}
}

type CartLineView struct {
	cart.Line
	UnitTotal decimal.Decimal `json:"unit_total"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines      []CartLineView `json:"lines"`
	TotalItems int            `json:"total_items"`
	Summary    pricing.Quote  `json:"summary"`
	Version    uint64         `json:"version"`
}

// NewCartView renders a snapshot. An empty cart has an all-zero summary.
func NewCartView(snap cart.Snapshot, policy pricing.Policy) CartView {
	view := CartView{Lines: make([]CartLineView, 0, len(snap.Lines)), Version: snap.Version}
	for _, l := range snap.Lines {
		view.Lines = append(view.Lines, CartLineView{Line: l, UnitTotal: l.UnitTotal(), Subtotal: l.Subtotal()})
		view.TotalItems += l.Quantity
	}
	if snap.Empty() {
		view.Summary = pricing.Quote{Subtotal: decimal.Zero, DeliveryFee: decimal.Zero, Discount: decimal.Zero, Total: decimal.Zero}
	} else {
		view.Summary = policy.Quote(snap.TotalPrice())
	}
	return view
}

func (cc *CartController) store(c *gin.Context) *cart.Store {
	return cc.Carts.Open(c.Request.Context(), middlewares.UserID(c))
}

// GetCart -> GET /cart
func (cc *CartController) GetCart(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Cart", NewCartView(cc.store(c).Snapshot(), cc.Pricing))
}

type addItemRequest struct {
	MenuID           string   `json:"menu_id" binding:"required"`
	CustomizationIDs []string `json:"customization_ids"`
}

// resolveToggles replays the picked ids as taps: an id picked twice is off.
func resolveToggles(menu *models.Menu, ids []string) (*cart.Selection, error) {
	picked, err := catalog.ResolveSelection(menu, ids)
	if err != nil {
		return nil, err
	}
	var sel cart.Selection
	for _, cs := range picked {
		sel.Toggle(cs)
	}
	return &sel, nil
}

// AddItem -> POST /cart/items. Prices come from the catalog, never the client.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := cc.Catalog.GetMenuItem(c.Request.Context(), req.MenuID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	sel, err := resolveToggles(menu, req.CustomizationIDs)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	store := cc.store(c)
	lineID := store.AddItem(menu.Key(), menu.Name, menu.Price, sel.Items())

	utils.RespondJSON(c, http.StatusOK, "Added to cart", gin.H{
		"line_id": lineID,
		"cart":    NewCartView(store.Snapshot(), cc.Pricing),
	})
}

// RemoveItem -> DELETE /cart/items/:line_id, one unit at a time
func (cc *CartController) RemoveItem(c *gin.Context) {
	store := cc.store(c)
	store.RemoveItem(cart.LineID(c.Param("line_id")))
	utils.RespondJSON(c, http.StatusOK, "Cart updated", NewCartView(store.Snapshot(), cc.Pricing))
}

// ClearCart -> DELETE /cart
func (cc *CartController) ClearCart(c *gin.Context) {
	store := cc.store(c)
	store.ClearCart()
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", NewCartView(store.Snapshot(), cc.Pricing))
}
