package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"leadnurture/internal/config"
	"leadnurture/internal/database"
	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/domain/shortlist"
	"leadnurture/internal/middleware"
	jwtsvc "leadnurture/internal/pkg/jwt"
	"leadnurture/internal/pkg/logger"
	"leadnurture/internal/remote"
	"leadnurture/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(false, "info")
		boot.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.IsProd(), cfg.LogLevel)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
	log.Info().Msg("console stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Commit journal (optional)
	var (
		journal  *campaign.Journal
		recorder campaign.Recorder
		purger   workspace.Purger
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer database.Close(db)

		journal = campaign.NewJournal(db)
		if err := journal.Migrate(); err != nil {
			return err
		}
		recorder, purger = journal, journal
		log.Info().Msg("commit journal enabled")
	} else {
		log.Warn().Msg("DATABASE_URL not set, commit journal disabled")
	}

	// Shortlist slot: redis when configured, process memory otherwise
	var slot shortlist.Slot
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, shortlists stay in memory")
			slot = shortlist.NewMemorySlot(cfg.ShortlistTTL)
		} else {
			slot = shortlist.NewRedisSlot(client, cfg.ShortlistTTL)
			log.Info().Msg("redis shortlist slot enabled")
		}
	} else {
		slot = shortlist.NewMemorySlot(cfg.ShortlistTTL)
	}

	api := remote.New(cfg.RemoteAPIURL, cfg.RemoteTimeout, log)
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL)

	hub := conversation.NewHub(log)
	defer hub.Close()

	registry := workspace.NewRegistry(workspace.Deps{
		CampaignRemote:     api,
		Journal:            recorder,
		ConversationRemote: api,
		Hub:                hub,
		Slot:               slot,
		ReturnAfter:        cfg.CampaignReturnAfter,
		Log:                log,
	})
	defer func() {
		if n := registry.CloseAll(); n > 0 {
			log.Info().Int("workspaces", n).Msg("workspaces closed on shutdown")
		}
	}()

	sweeper := workspace.NewSweeper(registry, purger, workspace.SweeperConfig{
		Schedule:  cfg.SweepSchedule,
		IdleTTL:   cfg.WorkspaceIdleTTL,
		Retention: cfg.JournalRetention,
	}, log)

	// Services and handlers
	authHandler := auth.NewHandler(auth.NewService(api, registry, jwt, log))
	leadHandler := lead.NewHandler(lead.NewService(api, log))
	shortlistHandler := shortlist.NewHandler(slot, log)
	campaignHandler := campaign.NewHandler(campaign.NewService(api, journal, log), slot, log)
	conversationHandler := conversation.NewHandler(conversation.NewService(api, log))
	wsHandler := conversation.NewWSHandler(hub, jwt, registry, middleware.OriginAllowed(cfg.CORSAllowedOrigins), log)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "workspaces": registry.Len()})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		// the websocket authenticates through its token query parameter
		conversation.RegisterWSRoutes(v1, wsHandler)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwt), workspace.Attach(registry))
		{
			authHandler.RegisterProtectedRoutes(protected)
			lead.RegisterRoutes(protected, leadHandler)
			shortlist.RegisterRoutes(protected, shortlistHandler)
			campaign.RegisterRoutes(protected, campaignHandler)
			conversation.RegisterRoutes(protected, conversationHandler)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := sweeper.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("remote", cfg.RemoteAPIURL).Msg("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sweeper.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
