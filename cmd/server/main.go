package main

import (
	"log"
	"time"

	httpctrl "github.com/fatihtunali/eskisini-3009-sub002/internal/controllers/http"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/infra"
	mmysql "github.com/fatihtunali/eskisini-3009-sub002/internal/infra/mysql"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/infra/rabbitmq"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/pricing"
	mysqlrepo "github.com/fatihtunali/eskisini-3009-sub002/internal/repository/mysql"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/services"
	"github.com/fatihtunali/eskisini-3009-sub002/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		logger.Fatal("db: connect", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	repo := mysqlrepo.NewOrderRepository(db)

	listingClient := infra.NewListingClient(cfg.ListingServiceURL, cfg.ListingTimeout)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
	if err != nil {
		logger.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	engine := pricing.NewEngine(pricing.Config{
		Currency:              cfg.Currency,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		StandardShippingCost:  cfg.StandardShippingCost,
		ExpressShippingCost:   cfg.ExpressShippingCost,
		CashOnDeliveryFee:     cfg.CashOnDeliveryFee,
	})

	guard := services.NewDuplicateGuard(cfg.DedupWindow)

	s := services.NewOrderService(repo, listingClient, publisher, engine, guard, logger)
	s.SetMetrics(services.NewMetrics(prometheus.DefaultRegisterer))

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	s.SetRedisClient(redisClient)

	handler := httpctrl.NewHandler(s, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "order-service"})
	})

	logger.Info("starting order service", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server run", zap.Error(err))
	}
}
