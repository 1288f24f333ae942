package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/yunyunfunnydays/hookloop-server/common/logger"
	commonmw "github.com/yunyunfunnydays/hookloop-server/common/middleware"
	"github.com/yunyunfunnydays/hookloop-server/config"
	"github.com/yunyunfunnydays/hookloop-server/controllers"
	"github.com/yunyunfunnydays/hookloop-server/database"
	"github.com/yunyunfunnydays/hookloop-server/kafka"
	"github.com/yunyunfunnydays/hookloop-server/repository"
	"github.com/yunyunfunnydays/hookloop-server/routes"
	"github.com/yunyunfunnydays/hookloop-server/services"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	logger.Initialize(os.Getenv("APP_ENV"))
	defer logger.Log.Sync()

	// Fails fast on missing or mis-sized gateway secrets.
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := database.ConnectWithConfig(cfg.MongoURI, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	orderRepo := repository.NewOrderRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orderRepo.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		zap.L().Fatal("Failed to ensure order indexes", zap.Error(err))
	}
	cancelIndex()

	var producer *kafka.PaymentEventProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewPaymentEventProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	orderService := services.NewOrderService(orderRepo, cfg.Gateway, producer)

	// Periodic sweep for orders the gateway never resolved.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ExpirySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		expired, err := orderService.ExpireStaleOrders(ctx)
		if err != nil {
			zap.L().Error("Stale order sweep failed", zap.Error(err))
			return
		}
		if expired > 0 {
			zap.L().Info("Expired unresolved payment orders", zap.Int("count", expired))
		}
	}); err != nil {
		zap.L().Fatal("Failed to schedule order expiry sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(), commonmw.SecurityHeaders())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	planController := controllers.NewPlanController(orderService, userRepo)
	callbackController := controllers.NewCallbackController(orderService, cfg.Gateway)
	routes.RegisterPlanRoutes(router, planController, callbackController, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.L().Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	}
}
