package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"photo-booking-server/config"
	"photo-booking-server/database"
	"photo-booking-server/jobs"
	"photo-booking-server/middleware"
	"photo-booking-server/routes"
	"photo-booking-server/services"
	ws "photo-booking-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	if err := seedPackages(db); err != nil {
		log.Fatal("Failed to seed packages: ", err)
	}

	// External collaborators
	storage, err := services.NewCloudinaryStorage(cfg.Cloudinary)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}
	payments := services.NewStripeGateway(cfg.Stripe)
	mailer := services.NewResendGateway(cfg.Email)

	// Domain services
	pricing := services.NewPricingService(cfg.Booking.LateBookingFee)
	notifier := services.NewNotificationService(db, mailer, cfg.Server.BaseURL)
	contracts := services.NewContractService(db, storage)
	jobTracker := services.NewJobService(db, notifier, cfg.Booking.DeliverySLADays)
	bookings := services.NewBookingService(db, pricing, payments, contracts, jobTracker, notifier)

	// Background email queue drain
	if cfg.Email.RetryEnabled {
		retryJob := jobs.NewEmailRetryJob(db, mailer, cfg.Email.RetryInterval, cfg.Email.MaxAttempts)
		retryJob.Start()
		defer retryJob.Stop()
	}

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Photo Booking Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Photographer dashboard WebSocket
	hub := ws.NewHub()
	go hub.Run()

	authRequired := middleware.AuthMiddleware(cfg)

	router.GET("/ws/photographer", authRequired, middleware.RequireRole("photographer"), func(c *gin.Context) {
		ws.ServeWebSocket(hub, c.Writer, c.Request, c.GetUint("user_id"))
	})

	// API routes
	api := router.Group("/api/v1")
	{
		routes.RegisterAuthRoutes(api.Group("/auth"), db, cfg, authRequired)
		routes.RegisterPackageRoutes(api.Group("/packages"), db, pricing)

		bookingGroup := api.Group("/bookings")
		bookingGroup.Use(authRequired)
		routes.RegisterBookingRoutes(bookingGroup, bookings, jobTracker, hub)

		jobGroup := api.Group("/jobs")
		jobGroup.Use(authRequired, middleware.RequireRole("photographer"))
		routes.RegisterJobRoutes(jobGroup, jobTracker, storage, hub)

		// Stripe calls this; no bearer auth, the signature is the credential
		routes.RegisterWebhookRoutes(api.Group("/webhooks"), bookings, jobTracker, hub, cfg.Stripe.WebhookSecret)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Photo Booking Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown: ", err)
	}

	log.Println("✅ Server exited cleanly")
}
