package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundstage/pkg/cache"
	"soundstage/pkg/config"
	"soundstage/pkg/database"
	"soundstage/pkg/jwt"
	"soundstage/pkg/logger"
	"soundstage/pkg/metrics"
	"soundstage/pkg/middleware"
	"soundstage/pkg/queue"
	"soundstage/pkg/s3"
	ledgerHTTP "soundstage/services/ledger/internal/controller/http"
	"soundstage/services/ledger/internal/payment"
	"soundstage/services/ledger/internal/repo/persistent"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "soundstage/services/ledger/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	gateway     *payment.StripeGateway
	httpServer  *http.Server
}

type handlers struct {
	coins       *ledgerHTTP.CoinHandler
	sessions    *ledgerHTTP.SessionHandler
	withdrawals *ledgerHTTP.WithdrawalHandler
	products    *ledgerHTTP.ProductHandler
	webhooks    *ledgerHTTP.WebhookHandler
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Rate limiting and webhook dedupe are skipped without redis
		log.Error("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		queueClient: queueClient,
		gateway:     payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
	}, nil
}

func (a *App) Run() error {
	ledgerRepo := persistent.NewLedgerRepository(a.db)

	// A typed nil *queue.Client must not reach the usecases as a non-nil interface.
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	coinUseCase := usecase.NewCoinUseCase(ledgerRepo, a.gateway, publisher, a.cfg.Currency, a.log)
	sessionUseCase := usecase.NewSessionUseCase(ledgerRepo, publisher, a.log)
	withdrawalUseCase := usecase.NewWithdrawalUseCase(ledgerRepo, a.s3Client, publisher, a.log)
	productUseCase := usecase.NewProductUseCase(ledgerRepo, publisher, a.log)

	h := handlers{
		coins:       ledgerHTTP.NewCoinHandler(coinUseCase, a.log),
		sessions:    ledgerHTTP.NewSessionHandler(sessionUseCase, a.log),
		withdrawals: ledgerHTTP.NewWithdrawalHandler(withdrawalUseCase, a.log),
		products:    ledgerHTTP.NewProductHandler(productUseCase, a.log),
		webhooks: ledgerHTTP.NewWebhookHandler(
			a.gateway,
			coinUseCase,
			ledgerHTTP.NewRedisDeduper(a.redisClient),
			a.log,
		),
	}

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(h, a.jwtService, a.redisClient)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Ledger service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func newRouter(h handlers, jwtService *jwt.Service, redisClient *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		// Authenticated by signature, not by token
		api.POST("/webhooks/stripe", h.webhooks.HandleStripe)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		protected.Use(middleware.RateLimitMiddleware(redisClient, 120, time.Minute))
		{
			protected.POST("/coins/purchase", h.coins.Purchase)
			protected.GET("/coins/balance", h.coins.GetBalance)
			protected.GET("/coins/transactions", h.coins.GetTransactions)

			protected.GET("/live", h.sessions.ListSessions)
			protected.POST("/live", h.sessions.CreateSession)
			protected.POST("/live/:id/rsvp", h.sessions.RSVP)

			protected.POST("/withdrawals", h.withdrawals.RequestWithdrawal)
			protected.GET("/withdrawals", h.withdrawals.ListWithdrawals)
			protected.GET("/earnings/available", h.withdrawals.AvailableEarnings)
			protected.POST("/admin/withdrawals/export", h.withdrawals.ExportPending)

			protected.GET("/products", h.products.ListProducts)
			protected.POST("/products", h.products.CreateProduct)
			protected.POST("/products/:id/purchase", h.products.PurchaseProduct)
		}
	}

	return r
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down ledger service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop accepting requests before the stores go away
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Ledger service exited")
	_ = a.log.Sync()
	return nil
}
