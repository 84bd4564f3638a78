package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/parceldrop/parceldrop-backend/internal/auth"
	"github.com/parceldrop/parceldrop-backend/internal/config"
	"github.com/parceldrop/parceldrop-backend/internal/database"
	"github.com/parceldrop/parceldrop-backend/internal/handlers"
	"github.com/parceldrop/parceldrop-backend/internal/logger"
	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/riders"
	"github.com/parceldrop/parceldrop-backend/internal/services"
)

func main() {
	logger.Setup()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	events, err := services.NewEventPublisher(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer events.Close()

	notifier, err := services.NewNotifier(context.Background(), cfg.FirebaseCredentials)
	if err != nil {
		logrus.Warnf("Firebase initialization warning: %v", err)
		notifier = nil
	}

	storage, err := services.NewStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	roles := database.NewRoles(db)
	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	coordinator := payments.NewCoordinator(provider, payments.NewGormStore(db))
	lifecycle := riders.NewLifecycle(riders.NewGormStore(db))

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", handlers.Register(db))
			authRoutes.POST("/login", handlers.Login(db, verifier))
		}

		api.GET("/ws", middleware.RequireAuth(verifier), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(verifier))
		{
			users := protected.Group("/users")
			{
				users.GET("/me", handlers.GetMe(db))
			}

			parcels := protected.Group("/parcels")
			{
				parcels.POST("", handlers.CreateParcel(db, storage))
				parcels.GET("/mine", handlers.ListMyParcels(db))
				parcels.GET("/:id", handlers.GetParcel(db))
				parcels.DELETE("/:id", handlers.DeleteParcel(db))
				parcels.POST("/:id/checkout", handlers.CreateCheckoutSession(db, provider))
			}

			paymentsRoutes := protected.Group("/payments")
			{
				paymentsRoutes.GET("/confirm", handlers.ConfirmPayment(coordinator, db, events, hub, notifier))
				paymentsRoutes.GET("/mine", handlers.ListMyPayments(db))
			}

			ridersRoutes := protected.Group("/riders")
			{
				ridersRoutes.POST("", handlers.ApplyRider(db))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.POST("/token", handlers.RegisterFCMToken(db))
			}

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole(roles, "admin"))
			{
				admin.GET("/users", handlers.ListUsers(db))
				admin.PATCH("/users/:id/role", handlers.UpdateUserRole(db))
				admin.GET("/parcels", handlers.ListAllParcels(db))
				admin.GET("/payments", handlers.ListAllPayments(db))
				admin.GET("/riders", handlers.ListRiders(db))
				admin.PATCH("/riders/:id/status", handlers.UpdateRiderStatus(lifecycle, db, events, notifier))
			}
		}
	}

	logrus.Infof("Server running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
