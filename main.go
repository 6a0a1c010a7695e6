package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arkdex/arkdex/backend/go-services/handlers"
	"github.com/arkdex/arkdex/backend/go-services/internal/archive"
	"github.com/arkdex/arkdex/backend/go-services/internal/cache"
	"github.com/arkdex/arkdex/backend/go-services/internal/config"
	"github.com/arkdex/arkdex/backend/go-services/internal/database"
	"github.com/arkdex/arkdex/backend/go-services/internal/oidc"
	"github.com/arkdex/arkdex/backend/go-services/internal/scrape"
	"github.com/arkdex/arkdex/backend/go-services/internal/tokens"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/handler"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/service"
	"github.com/arkdex/arkdex/backend/go-services/pkg/logger"
	"github.com/arkdex/arkdex/backend/go-services/pkg/metrics"
	"github.com/arkdex/arkdex/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
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

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// shared runtime vars used by handlers/readiness
	var verifier middleware.Verifier
	var triviaSvc service.Service
	var docCache handler.Cache
	var mongoUp bool

	// Connect to Redis early so both the document cache and the rate-limiter
	// can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})

		// validate connection
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			docCache = cache.New(redisClient, "trivia:", cfg.Scrape.CacheTTL)
			logger.Infof("Connected to Redis (early) for document cache: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis early (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		// use Redis-backed limiter when configured and Redis client is available
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		// storage readiness: a trivia store is always wired (memory fallback),
		// but report whether Mongo actually backs it
		deps["storage"] = triviaSvc != nil
		if triviaSvc == nil {
			ready = false
		}
		deps["mongodb"] = mongoUp || cfg.MongoDB.URI == ""

		// auth readiness: if Keycloak or a JWT secret was configured we expect
		// a verifier (or ALLOW_INSECURE_TOKEN)
		if cfg.Keycloak.URL != "" || cfg.JWT.Secret != "" {
			deps["auth"] = verifier != nil
			if verifier == nil {
				ready = false
			}
		} else {
			deps["auth"] = true
		}

		// Redis readiness when used for rate-limiter or cache
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Keycloak OIDC verifier for the write endpoints
	ctx := context.Background()
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" && cfg.Keycloak.Realm != "" {
		issuer := strings.TrimRight(cfg.Keycloak.URL, "/") + "/realms/" + cfg.Keycloak.Realm
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	} else if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		// Fallback: try URL as issuer (older deployments may expose realm path in URL)
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.URL, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier (fallback): %v", err)
		} else {
			verifier = ver
		}
	}

	// Shared-secret JWT verifier when Keycloak is not available
	if verifier == nil && cfg.JWT.Secret != "" {
		verifier = tokens.NewSecretVerifier(cfg.JWT.Secret)
		logger.Infof("using shared-secret JWT verifier for write endpoints")
	}

	// Optional insecure verifier for integration tests: parse token claims without signature verification
	if verifier == nil {
		val := strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")))
		if val == "true" {
			logger.Warn("enabling insecure token verifier (integration mode)")
			verifier = oidc.NewInsecureVerifier()
		}
	}

	// MongoDB-backed trivia store. Retry/backoff when connecting to tolerate
	// startup races; fall back to the in-memory store when unavailable.
	if cfg.MongoDB.URI != "" {
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
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			col := client.Database(cfg.MongoDB.Database).Collection("trivia")
			triviaSvc = service.NewMongoService(col)
			mongoUp = true
		}
	}
	if triviaSvc == nil {
		logger.Warnf("using in-memory trivia store (documents are lost on restart)")
		triviaSvc = service.NewMemoryService()
	}

	// Raw-page archive is optional: enabled when MINIO_ENDPOINT is set
	var archiver scrape.Archiver
	if mcfg := archive.LoadMinIOConfig(); mcfg.Endpoint != "" {
		store, err := archive.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO archive: %v", err)
		} else {
			archiver = store
			logger.Infof("raw page archive enabled: %s/%s", mcfg.Endpoint, mcfg.Bucket)
		}
	}

	scraper := scrape.New(scrape.Config{
		BaseURL:   cfg.Scrape.BaseURL,
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   cfg.Scrape.Timeout,
	}, archiver)

	var authMW gin.HandlerFunc
	if verifier != nil {
		authMW = middleware.AuthMiddleware(verifier)
	} else {
		logger.Warnf("no token verifier configured — write endpoints are unauthenticated")
	}

	handler.RegisterTriviaRoutes(r, triviaSvc, scraper, docCache, authMW)

	// Register minimal Swagger UI + JSON for API documentation
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	// brief runtime configuration summary to help with debugging early exits
	logger.Infof("Config summary: keycloak=%v mongo=%v redis=%v jwt_secret_set=%v", cfg.Keycloak.URL != "", mongoUp, redisClient != nil, cfg.JWT.Secret != "")
	logger.Debugf("services: store=%v cache=%v verifier=%v archive=%v", triviaSvc != nil, docCache != nil, verifier != nil, archiver != nil)
	logger.Infof("Starting trivia service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
