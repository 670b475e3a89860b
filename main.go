package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"yatube/cache"
	"yatube/config"
	"yatube/db"
	"yatube/logger"
	"yatube/models"
	"yatube/routes"
	"yatube/storage"
	"yatube/tracing"
	"yatube/utils"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	serviceName       = "yatube"
	sessionCookieName = "sessionid"
)

func main() {
	logger.Init(config.DEBUG_MODE)
	defer logger.Sync()

	db.Init()
	if err := models.Init(); err != nil {
		logger.L().Fatal("migrations", zap.Error(err))
	}
	storage.Init()

	shutdownTracing, err := tracing.Init(context.Background(), config.OTEL_EXPORTER_OTLP_ENDPOINT, serviceName)
	if err != nil {
		logger.L().Fatal("tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	_ = router.SetTrustedProxies(nil)
	router.Use(utils.RequestLogger, gin.Recovery())
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	if config.SENTRY_DSN != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: config.SENTRY_DSN, AttachStacktrace: true}); err != nil {
			logger.L().Fatal("sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if config.OTEL_EXPORTER_OTLP_ENDPOINT != "" {
		router.Use(tracing.Middleware(serviceName))
	}
	if config.CORS_ORIGINS != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Split(config.CORS_ORIGINS, ","),
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}

	sessionStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_SECRET))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.SESSION_MAX_AGE,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.TLS_DOMAINS != "",
	})
	router.Use(sessions.Sessions(sessionCookieName, sessionStore))

	routes.Setup(router, pageCache())

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		logger.Info("listening", zap.String("address", config.BIND_ADDRESS))
		err = router.Run(config.BIND_ADDRESS)
	}
	logger.L().Fatal("server stopped", zap.Error(err))
}

func pageCache() cache.Store {
	if config.CACHE_BACKEND != "redis" {
		logger.Info("page cache in memory", zap.Int("ttl", config.INDEX_CACHE_SECONDS))
		return cache.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.REDIS_ADDR,
		Password: config.REDIS_PASSWORD,
		DB:       config.REDIS_DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, page cache in memory", zap.String("addr", config.REDIS_ADDR), zap.Error(err))
		_ = client.Close()
		return cache.NewMemoryStore()
	}
	logger.Info("page cache in redis", zap.String("addr", config.REDIS_ADDR), zap.Int("ttl", config.INDEX_CACHE_SECONDS))
	return cache.NewRedisStore(client, "")
}
