package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/spilno/spilno-backend/handlers"
	"github.com/spilno/spilno-backend/internal/config"
	"github.com/spilno/spilno-backend/internal/database"
	feedhandler "github.com/spilno/spilno-backend/internal/feed/handler"
	feedservice "github.com/spilno/spilno-backend/internal/feed/service"
	"github.com/spilno/spilno-backend/internal/identity"
	"github.com/spilno/spilno-backend/internal/oidc"
	"github.com/spilno/spilno-backend/internal/sessions"
	"github.com/spilno/spilno-backend/internal/storage"
	"github.com/spilno/spilno-backend/internal/tokens"
	"github.com/spilno/spilno-backend/internal/users"
	"github.com/spilno/spilno-backend/pkg/logger"
	"github.com/spilno/spilno-backend/pkg/metrics"
	"github.com/spilno/spilno-backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env controls verbosity: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v issuer=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Identity.IssuerURL != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Permissive CORS for the dev client; tighten per-origin in production.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// shared runtime vars used by handlers and readiness
	var verifier middleware.Verifier
	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	var revocations *sessions.RedisRevocations
	var feedSvc *feedservice.Service

	// Connect to Redis early so the rate limiter and session store can use it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Prefer Redis for refresh sessions and the revoke-all cutoff.
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		revocations = sessions.NewRedisRevocations(redisClient, "revoked:", 0)
		logger.Infof("using Redis for session storage")
	}

	// MongoDB-backed services: users, feed data, sessions fallback.
	if cfg.MongoDB.URI != "" {
		client, errConn := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB: %v", errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)

			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			feedSvc = feedservice.NewMongoService(db)

			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
			}
		}
	}
	if feedSvc == nil {
		logger.Warnf("MongoDB unavailable, serving feed data from memory")
		feedSvc = feedservice.NewMemoryService()
	}

	// Token verification: an external OIDC issuer when configured, otherwise
	// tokens signed by this service checked against the revocation cutoff.
	if cfg.Identity.IssuerURL != "" && cfg.Identity.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, strings.TrimRight(cfg.Identity.IssuerURL, "/"), cfg.Identity.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	// Opt-in unsigned-token verifier for integration tests only.
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure token verifier (integration mode); signatures are not checked")
		verifier = oidc.NewInsecureVerifier()
	}
	if verifier == nil {
		var src tokens.RevocationSource
		switch {
		case revocations != nil:
			src = revocations
		case userSvc != nil:
			src = userSvc
		}
		verifier = tokens.NewLocalVerifier(cfg, src)
	}

	// The signup/login flow exchanges its custom token against /api/token over
	// HTTP, same as an external identity provider would be called.
	if cfg.Identity.TokenURL == "" {
		cfg.Identity.TokenURL = fmt.Sprintf("http://127.0.0.1:%s/api/token", cfg.Server.Port)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["users"] = userSvc != nil
		deps["sessions"] = sessionsSvc != nil
		if userSvc == nil || sessionsSvc == nil {
			ready = false
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := gin.H{"deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			status["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		c.JSON(http.StatusOK, status)
	})

	// Auth endpoints need both user and session services.
	if userSvc != nil && sessionsSvc != nil {
		var rev identity.Revoker
		if revocations != nil {
			rev = revocations
		}
		idSvc := identity.NewService(cfg, userSvc, sessionsSvc, rev)
		h := handlers.NewAuthHandler(cfg, idSvc, userSvc, sessionsSvc)
		h.Register(r.Group("/"), verifier)
	} else {
		logger.Warnf("auth handlers not registered because user/session services are unavailable")
	}

	feedhandler.RegisterFeedRoutes(r, feedSvc)
	handlers.RegisterSwagger(r)

	// Publication media lives in MinIO when configured.
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		store, err := storage.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			feedhandler.RegisterMediaRoutes(r, store)
			logger.Infof("publication media stored in MinIO bucket %q", mcfg.Bucket)
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve the built client from the static dir, with an index.html fallback
	// for client-side routes.
	if st, err := os.Stat(cfg.Server.StaticDir); err == nil && st.IsDir() {
		staticDir := cfg.Server.StaticDir
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
				return
			}
			p := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				c.File(p)
				return
			}
			c.File(filepath.Join(staticDir, "index.html"))
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
