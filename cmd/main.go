package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamehub/cache"
	"gamehub/collections"
	"gamehub/concurrent"
	"gamehub/config"
	"gamehub/db"
	"gamehub/gateway"
	"gamehub/handlers"
	"gamehub/listing"
	"gamehub/middleware"
	"gamehub/monitoring"
	"gamehub/ownership"
	"gamehub/session"
	"gamehub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Log.Fatalf("❌ Invalid configuration: %v", err)
	}

	utils.InitLogger(utils.LoggerOptions{
		Level:   cfg.Log.Level,
		Release: cfg.Release(),
		File:    cfg.Log.File,
	})
	monitoring.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := sessionStore(ctx, cfg)
	shared := sharedCache(cfg)

	signer, err := session.NewSigner(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		utils.Log.Fatalf("❌ Failed to create session signer: %v", err)
	}
	sessions := session.NewManager(store)

	api := gateway.New(cfg.API.BaseURL, cfg.API.Timeout)
	h := handlers.New(handlers.Deps{
		API:         api,
		Cache:       shared,
		Sessions:    sessions,
		Catalog:     listing.NewRegistry(api, cfg.Catalog.PageSize, cfg.Catalog.MaxViews, cfg.Catalog.ViewTTL),
		Details:     concurrent.NewFetcher(api, shared, cfg.Catalog.DetailsWait),
		Collections: collections.NewService(api, shared),
		Ownership:   ownership.NewController(api, sessions),
	})

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.CSRFHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(monitoring.PrometheusMiddleware())

	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	app := r.Group("/")
	app.Use(middleware.Sessions(sessions, signer, cfg.Server.UseHTTPS))
	if cfg.Server.CSRFEnabled {
		csrf := middleware.NewCSRFStore(cfg.Catalog.CacheSize, cfg.Session.TTL)
		app.GET("/csrf-token", middleware.CSRFTokenHandler(csrf))
		app.Use(middleware.CSRFProtection(csrf))
	}
	h.Register(app, middleware.RateLimit(shared, "auth", cfg.Server.LoginLimit, cfg.Server.LoginWindow))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		var err error
		if cfg.Server.UseHTTPS {
			utils.Log.WithField("port", cfg.Server.Port).Info("🔒 Starting server with HTTPS")
			server.TLSConfig = &tls.Config{
				MinVersion:       tls.VersionTLS12,
				CurvePreferences: []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
			}
			err = server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			utils.Log.WithField("port", cfg.Server.Port).Info("🌐 Starting server with HTTP")
			if cfg.Release() {
				utils.Log.Warn("⚠️  Running without HTTPS. Set USE_HTTPS=true for production")
			}
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Log.WithError(err).Error("Graceful shutdown failed")
	}
}

// sessionStore picks Postgres when DATABASE_URL is set.
func sessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.Database.URL == "" {
		utils.Log.Warn("DATABASE_URL not set, sessions are kept in memory")
		return session.NewMemoryStore()
	}
	conn, err := db.InitDB(cfg.Database.URL)
	if err != nil {
		utils.Log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	store := db.NewSessionStore(conn)
	go purgeSessions(ctx, store, cfg.Session.TTL)
	return store
}

func purgeSessions(ctx context.Context, store *db.SessionStore, maxAge time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx, maxAge)
			if err != nil {
				utils.Log.WithError(err).Warn("Session purge failed")
				continue
			}
			if n > 0 {
				utils.Log.WithField("removed", n).Info("Purged expired sessions")
			}
		}
	}
}

func sharedCache(cfg *config.Config) *cache.Cache {
	if cfg.Redis.Addr == "" {
		utils.Log.Warn("REDIS_URL not set, using in-process cache")
		return cache.NewMemory(cfg.Catalog.CacheSize)
	}
	client, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		utils.Log.WithError(err).Warn("Redis unavailable, using in-process cache")
		return cache.NewMemory(cfg.Catalog.CacheSize)
	}
	return cache.New(client, cfg.Catalog.CacheSize)
}
