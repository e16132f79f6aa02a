package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/accounts"
	"github.com/openshelf/openshelf/internal/activity"
	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/content"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/storage"
	"github.com/openshelf/openshelf/pkg/logger"
	"github.com/openshelf/openshelf/pkg/metrics"
	"github.com/openshelf/openshelf/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v jwt_secret_set=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.JWT.Secret != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond
	// to OPTIONS. Production should sit behind a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	// unknown routes and known routes hit with the wrong verb both answer in
	// the standard envelope
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		envelope.MethodNotAllowed().Write(c)
	})
	r.NoRoute(func(c *gin.Context) {
		envelope.NotFound("route not found").Write(c)
	})

	// Redis is optional; it backs the rate limiter and the token blacklist
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// connect to MongoDB with retry/backoff to tolerate startup races
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required")
	}
	ctx := context.Background()
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)
	logger.Infof("connected to MongoDB: %s", cfg.MongoDB.Database)

	// object storage is optional; cover upload routes are mounted only when
	// it is configured
	var uploads storage.Uploader
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			uploads = s
			logger.Infof("connected to MinIO: %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		}
	}

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongodb": true}
		ready := true
		if err := client.Ping(c.Request.Context(), nil); err != nil {
			deps["mongodb"] = false
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
			if cfg.RateLimit.UseRedis && redisClient == nil {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	userStore := accounts.NewUserStore(db)
	api := r.Group("/api/v1")

	// own-token auth: issue, verify and revoke without an external identity
	// provider; with no JWT secret the API runs open and callers act as
	// "system"
	protected := api
	if cfg.JWT.Secret != "" {
		issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
		blacklist := auth.NewBlacklist(redisClient)
		roles := auth.NewMongoRoleResolver(db.Collection("roles"))
		auth.NewHandler(userStore, roles, issuer, blacklist).Register(api)
		protected = api.Group("", middleware.Auth(issuer, blacklist))
	} else {
		logger.Warnf("JWT_SECRET not set; API is running without authentication")
	}

	// catalog
	catalog.RegisterBookRoutes(protected, db, uploads)
	catalog.NewWritersResource(db).Register(protected)
	catalog.NewPublicationsResource(db).Register(protected)
	catalog.NewSubjectsResource(db).Register(protected)
	catalog.NewTranslatorsResource(db).Register(protected)

	// site content
	content.NewFAQsResource(db).Register(protected)
	content.NewTermsResource(db).Register(protected)
	content.NewAboutUsResource(db).Register(protected)

	// reader activity
	books := activity.NewMongoBookFinder(db.Collection("books"))
	activity.RegisterFavouriteRoutes(protected, activity.NewFavouritesService(db.Collection("favourites"), books))
	activity.RegisterLendingRoutes(protected, activity.NewLendingsService(db.Collection("lendings"), books))
	activity.RegisterReviewRoutes(protected, activity.NewReviewsService(db.Collection("reviews"), books))
	activity.RegisterRequestBookRoutes(protected, activity.NewRequestBooksService(db.Collection("requestbooks"), uploads))
	activity.RegisterRankingRoutes(protected, activity.NewRankingsService(db))
	visits := activity.NewVisitsService(activity.NewMongoVisitsRepository(db.Collection("recentvisits")), books)
	activity.RegisterVisitRoutes(protected, visits)

	// account administration is admin-only when auth is on
	admin := protected
	if cfg.JWT.Secret != "" {
		admin = protected.Group("", middleware.RequireRole("admin"))
	}
	accounts.NewUsersResource(userStore).Register(admin)
	accounts.NewRolesResource(db).Register(admin)
	accounts.NewPermissionsResource(db).Register(admin)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting openshelf API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
