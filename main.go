package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/yeremiapane/zest-order/cache"
	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/catalog"
	"github.com/yeremiapane/zest-order/config"
	"github.com/yeremiapane/zest-order/database"
	"github.com/yeremiapane/zest-order/events"
	"github.com/yeremiapane/zest-order/hub"
	"github.com/yeremiapane/zest-order/orders"
	"github.com/yeremiapane/zest-order/pricing"
	"github.com/yeremiapane/zest-order/router"
	"github.com/yeremiapane/zest-order/services"
	"github.com/yeremiapane/zest-order/utils"
)

func main() {
	seedPath := flag.String("seed", "", "load the menu catalog from a JSON file before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel)
	utils.SetJWTSecret(cfg.JWTSecret)
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seedPath != "" {
		data, err := catalog.LoadSeedFile(*seedPath)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to read seed file: %v", err)
		}
		if err := catalog.Seed(ctx, db, data, utils.InfoLogger); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	wsHub := hub.NewHub(utils.InfoLogger)

	// Cart session, dicerminkan ke redis kalau REDIS_ADDR diisi
	registryOpts := []cart.RegistryOption{cart.WithLogger(utils.InfoLogger)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			utils.ErrorLogger.WithError(err).Warn("Redis unavailable, carts are kept in memory only")
		} else {
			registryOpts = append(registryOpts, cart.WithMirror(cache.NewRedisCart(rdb, cache.DefaultTTL)))
			utils.InfoLogger.WithField("addr", cfg.RedisAddr).Info("Cart mirror enabled")
		}
	}
	carts := cart.NewRegistry(registryOpts...)
	carts.Observe(wsHub.BroadcastCartUpdate)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			utils.ErrorLogger.WithError(err).Warn("RabbitMQ unavailable, order events are not published")
		} else {
			defer conn.Close()
			rp, err := events.NewRabbitPublisher(conn)
			if err != nil {
				utils.ErrorLogger.WithError(err).Warn("RabbitMQ channel setup failed, order events are not published")
			} else {
				publisher = rp
			}
		}
	}
	defer publisher.Close()

	policy := pricing.NewFixed(cfg.DeliveryFee, cfg.Discount)
	repo := orders.NewGormRepository(db)
	checkout := orders.NewCheckout(repo, policy,
		orders.WithPublisher(publisher),
		orders.WithCheckoutLogger(utils.InfoLogger),
	)
	history := orders.NewHistory(repo, utils.InfoLogger)

	go utils.CleanupBlacklist(ctx, 10*time.Minute)

	monitor := services.NewStatusMonitor(db, wsHub, utils.InfoLogger)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:                 db,
		Catalog:            catalog.NewGormCatalog(db),
		Carts:              carts,
		Pricing:            policy,
		Checkout:           checkout,
		History:            history,
		Hub:                wsHub,
		Receipt:            orders.Receipt{Brand: cfg.RestaurantName},
		PaymentMethod:      cfg.PaymentMethod,
		CORSOrigin:         cfg.CORSOrigin,
		CheckoutRatePerMin: cfg.CheckoutRatePerMin,
		IPRatePerMin:       cfg.IPRatePerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	wsHub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("Server forced to shutdown")
	}
}
