package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/catalog"
	"github.com/yeremiapane/zest-order/utils"
)

type CatalogController struct {
	Catalog catalog.Catalog
}

func NewCatalogController(cat catalog.Catalog) *CatalogController {
	return &CatalogController{Catalog: cat}
}

// GetAllCategories -> GET /categories
func (cc *CatalogController) GetAllCategories(c *gin.Context) {
	categories, err := cc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// GetMenus -> GET /menus?category=<id>&q=<search>
func (cc *CatalogController) GetMenus(c *gin.Context) {
	var filter catalog.MenuFilter
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category ID"))
			return
		}
		filter.CategoryID = uint(id)
	}
	filter.Search = c.Query("q")

	menus, err := cc.Catalog.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID -> GET /menus/:menu_id, includes the allowed customizations
func (cc *CatalogController) GetMenuByID(c *gin.Context) {
	menu, err := cc.Catalog.GetMenuItem(c.Request.Context(), c.Param("menu_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

type selectionRequest struct {
	CustomizationIDs []string `json:"customization_ids"`
}

type PricePreview struct {
	MenuID         string               `json:"menu_id"`
	BasePrice      decimal.Decimal      `json:"base_price"`
	Customizations []cart.Customization `json:"customizations"`
	UnitPrice      decimal.Decimal      `json:"unit_price"`
}

// PreviewPrice -> POST /menus/:menu_id/price, harga satuan sesuai pilihan di layar menu
func (cc *CatalogController) PreviewPrice(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := cc.Catalog.GetMenuItem(c.Request.Context(), c.Param("menu_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	sel, err := resolveToggles(menu, req.CustomizationIDs)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	items := sel.Items()
	if items == nil {
		items = []cart.Customization{}
	}
	utils.RespondJSON(c, http.StatusOK, "Price preview", PricePreview{
		MenuID:         menu.Key(),
		BasePrice:      menu.Price,
		Customizations: items,
		UnitPrice:      sel.UnitPrice(menu.Price),
	})
}
