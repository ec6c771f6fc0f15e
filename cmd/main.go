package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/cart"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/events"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/handler"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/repository"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/storage"
	"github.com/cloud-wave-best-zizon/boutique-service/pkg/config"
	"github.com/cloud-wave-best-zizon/boutique-service/pkg/logger"
	"github.com/cloud-wave-best-zizon/boutique-service/pkg/middleware"
	"github.com/cloud-wave-best-zizon/boutique-service/pkg/tls"
)

type backends struct {
	products service.ProductRepository
	orders   service.OrderRepository
	catalog  service.CatalogRepository
	carts    service.CartStore
	images   service.ImageStore
	local    *storage.MemoryImageStore
	closers  []func() error
}

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	// Config 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Logger 초기화
	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := newBackends(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize backends", zap.Error(err))
	}
	defer func() {
		for _, closeFn := range b.closers {
			if err := closeFn(); err != nil {
				zlog.Warn("Failed to close backend", zap.Error(err))
			}
		}
	}()

	pub, err := newPublisher(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer pub.Close()

	// Service, Handler 초기화
	catalogService := service.NewCatalogService(b.products, b.catalog, b.images, zlog, cfg.StockRetryLimit)
	orderService := service.NewOrderService(b.products, b.orders, b.carts, pub, zlog, cfg.StockRetryLimit)
	cartService := service.NewCartService(b.products, b.carts, zlog)

	if cfg.EventBroker == config.BrokerKafka {
		consumer := events.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, catalogService, zlog)
		consumer.Start(ctx)
		defer consumer.Stop()
	}

	if cfg.AdminToken == "" {
		zlog.Warn("ADMIN_TOKEN is empty, admin routes are locked")
	}

	// Gin Router 설정
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zlog))

	handler.RegisterRoutes(router, handler.Handlers{
		Product: handler.NewProductHandler(catalogService, zlog),
		Order:   handler.NewOrderHandler(orderService, zlog),
		Cart:    handler.NewCartHandler(cartService, zlog),
		Catalog: handler.NewCatalogHandler(catalogService, zlog),
	}, middleware.AdminGuard(cfg.AdminToken))

	if b.local != nil {
		router.GET("/static/*key", func(c *gin.Context) {
			body, ok := b.local.Object(strings.TrimPrefix(c.Param("key"), "/"))
			if !ok {
				c.Status(http.StatusNotFound)
				return
			}
			c.Data(http.StatusOK, http.DetectContentType(body), body)
		})
	}

	tlsSource, tlsConfig, err := tls.LoadTLSConfig(ctx, &cfg.TLS, zlog)
	if err != nil {
		zlog.Fatal("Failed to load TLS config", zap.Error(err))
	}
	defer tlsSource.Close()

	// Server 시작
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.Bool("local_mode", cfg.LocalMode),
			zap.String("event_broker", cfg.EventBroker),
			zap.Bool("tls", tlsConfig != nil))

		var err error
		if tlsConfig != nil {
			go tlsSource.WatchCertificates(ctx, 30*time.Second)
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()

	zlog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited")
}

// newBackends wires in-memory stores in LOCAL_MODE, DynamoDB, Redis and S3
// otherwise.
func newBackends(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*backends, error) {
	if cfg.LocalMode {
		zlog.Info("Running in local mode with in-memory stores")
		baseURL := cfg.ImageBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:" + cfg.Port + "/static"
		}
		images := storage.NewMemoryImageStore(baseURL)
		return &backends{
			products: repository.NewMemoryProductRepository(),
			orders:   repository.NewMemoryOrderRepository(),
			catalog:  repository.NewMemoryCatalogRepository(),
			carts:    cart.NewMemoryStore(),
			images:   images,
			local:    images,
		}, nil
	}

	// DynamoDB 클라이언트 초기화
	awsCfg, err := repository.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dynamoClient := repository.NewDynamoDBClient(awsCfg, cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &backends{
		products: repository.NewProductRepository(dynamoClient, cfg.ProductTableName),
		orders:   repository.NewOrderRepository(dynamoClient, cfg.OrderTableName),
		catalog:  repository.NewCatalogRepository(dynamoClient, cfg.CatalogTableName),
		carts:    cart.NewRedisStore(rdb, cfg.CartTTL),
		images:   storage.NewS3ImageStore(s3.NewFromConfig(awsCfg), cfg.ImageBucket, cfg.AWSRegion, cfg.ImageBaseURL),
		closers:  []func() error{rdb.Close},
	}, nil
}

func newPublisher(cfg *config.Config, zlog *zap.Logger) (publisher, error) {
	switch cfg.EventBroker {
	case config.BrokerKafka:
		return events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zlog), nil
	case config.BrokerRabbitMQ:
		return events.DialRabbit(cfg.RabbitMQURL, zlog)
	default:
		return events.NewNoopPublisher(zlog), nil
	}
}
