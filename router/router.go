package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/catalog"
	"github.com/yeremiapane/zest-order/controllers"
	"github.com/yeremiapane/zest-order/hub"
	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/orders"
	"github.com/yeremiapane/zest-order/pricing"
)

// Deps are the long-lived services shared by the handlers.
type Deps struct {
	DB            *gorm.DB
	Catalog       catalog.Catalog
	Carts         *cart.Registry
	Pricing       pricing.Policy
	Checkout      *orders.Checkout
	History       *orders.History
	Hub           *hub.Hub
	Receipt       orders.Receipt
	PaymentMethod string
	CORSOrigin    string
	// CheckoutRatePerMin limits order submissions per user.
	CheckoutRatePerMin int
	// IPRatePerMin limits every request per client IP; zero disables it.
	IPRatePerMin int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if d.IPRatePerMin > 0 {
		r.Use(middlewares.NewRateLimiter(d.IPRatePerMin, time.Minute).RateLimit())
	}

	// Inisialisasi controller
	catalogCtrl := controllers.NewCatalogController(d.Catalog)
	cartCtrl := controllers.NewCartController(d.Carts, d.Catalog, d.Pricing)
	checkoutCtrl := controllers.NewCheckoutController(d.DB, d.Carts, d.Checkout, d.Hub, d.PaymentMethod)
	orderCtrl := controllers.NewOrderController(d.History, d.Receipt)
	customerCtrl := controllers.NewCustomerController(d.DB)
	authCtrl := controllers.NewAuthController(d.Carts)
	socketCtrl := controllers.NewCartSocketController(d.Carts, d.Hub, d.Pricing, d.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Lihat kategori dan menu
	r.GET("/categories", catalogCtrl.GetAllCategories)
	r.GET("/menus", catalogCtrl.GetMenus)
	r.GET("/menus/:menu_id", catalogCtrl.GetMenuByID)
	r.POST("/menus/:menu_id/price", catalogCtrl.PreviewPrice)

	// Websocket cart, token lewat query string
	r.GET("/ws/cart", middlewares.WebSocketAuthMiddleware(), socketCtrl.CartSocket)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		// -- CART --
		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.DELETE("/cart/items/:line_id", cartCtrl.RemoveItem)
		auth.DELETE("/cart", cartCtrl.ClearCart)

		// -- CHECKOUT --
		checkoutLimiter := middlewares.NewUserRateLimiter(d.CheckoutRatePerMin, d.CheckoutRatePerMin)
		auth.POST("/checkout", middlewares.NoStore(), checkoutLimiter.Limit(), checkoutCtrl.PlaceOrder)

		// -- ORDERS --
		auth.GET("/orders", orderCtrl.GetMyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		receipts := auth.Group("/orders/:order_id")
		receipts.Use(middlewares.ReceiptLoggerMiddleware())
		{
			receipts.GET("/receipt", orderCtrl.DownloadReceipt)
			receipts.GET("/receipt.pdf", orderCtrl.DownloadReceiptPDF)
		}

		// -- PROFILE --
		auth.GET("/profile", customerCtrl.GetProfile)
		auth.PATCH("/profile", customerCtrl.UpdateProfile)

		auth.POST("/logout", authCtrl.Logout)
	}

	return r
}
