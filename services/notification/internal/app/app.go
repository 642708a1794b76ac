package app

import (
	"context"
	"errors"
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
	notificationHTTP "soundstage/services/notification/internal/controller/http"
	notificationCache "soundstage/services/notification/internal/repo/cache"
	"soundstage/services/notification/internal/repo/persistent"
	"soundstage/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "soundstage/services/notification/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

// QueueInspector reports how many ledger events are waiting.
type QueueInspector interface {
	GetQueueLength() (int, error)
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Notifications live in redis, so it is required here
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) Run() error {
	store := notificationCache.NewRedisNotificationStore(a.redisClient)
	directory := persistent.NewUserDirectory(a.db)
	notificationUseCase := usecase.NewNotificationUseCase(store, directory, a.log)
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, a.log)

	if err := a.queueClient.ConsumeLedgerEvents(eventHandler(notificationUseCase, a.log)); err != nil {
		a.log.Error("Error starting ledger event consumer: %v", err)
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(notificationHandler, a.jwtService, a.queueClient)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Notification service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

// eventHandler drops events that can never be turned into notifications and
// returns every other failure so the delivery is requeued.
func eventHandler(uc usecase.NotificationUseCase, log *logger.Logger) func(queue.LedgerEvent) error {
	return func(event queue.LedgerEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := uc.HandleLedgerEvent(ctx, event)
		if errors.Is(err, usecase.ErrInvalidEvent) {
			log.Warn("Discarding ledger event %s: %v", event.ID, err)
			return nil
		}
		return err
	}
}

func newRouter(handler *notificationHTTP.NotificationHandler, jwtService *jwt.Service, inspector QueueInspector) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		response := gin.H{"status": "ok"}
		if inspector != nil {
			if length, err := inspector.GetQueueLength(); err == nil {
				response["queue_length"] = length
			}
		}
		c.JSON(200, response)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/notifications", handler.GetNotifications)
		protected.DELETE("/notifications", handler.ClearNotifications)
	}

	return r
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if err := a.queueClient.Close(); err != nil {
		a.log.Error("Error closing RabbitMQ: %v", err)
	}

	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Notification service exited")
	_ = a.log.Sync()
	return nil
}
