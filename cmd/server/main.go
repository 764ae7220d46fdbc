package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/access"
	"alcyxob/fitclub/internal/api"
	"alcyxob/fitclub/internal/config"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/freemium"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/repository"
	"alcyxob/fitclub/internal/repository/memory"
	"alcyxob/fitclub/internal/repository/mongo"
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
	"alcyxob/fitclub/internal/storage"
)

const serviceName = "fitclub-api"

// Version is set at build time.
var Version = "dev"

const sweepInterval = 5 * time.Minute

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stdout)
	}
	return log.Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()
}

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("could not load config")
	}
	log := newLogger(cfg.Log)
	log.Info().Msg("starting fitclub API")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret (JWT_SECRET) must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	var store *repository.Store
	switch cfg.Database.Driver {
	case "memory":
		log.Warn().Msg("using in-memory document store; data is lost on restart")
		store = memory.NewStore()
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MongoDB")
		}
		defer func() {
			log.Info().Msg("disconnecting MongoDB")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Error().Err(err).Msg("failed to disconnect MongoDB")
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

		go func() {
			idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(idxCtx, appDB, log)
		}()
		store = mongo.NewStore(appDB)
	}

	// --- File storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	} else {
		log.Warn().Msg("s3.bucket_name not set; using in-memory object storage")
		fileStorage = storage.NewMemoryStorage()
	}

	// --- Events ---
	var publisher events.Publisher = events.NewLogPublisher(log)
	if cfg.AMQP.Enabled {
		amqpPub, err := events.NewAMQPPublisher(ctx, events.AMQPConfig{
			URL:      cfg.AMQP.URL,
			Exchange: cfg.AMQP.Exchange,
			Logger:   log,
		})
		if err != nil {
			log.Error().Err(err).Msg("AMQP unavailable; events are logged only")
		} else {
			publisher = amqpPub
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// --- Freemium ledger ---
	var ledger freemium.Ledger = freemium.NewMemoryLedger()
	if cfg.Redis.Enabled {
		if rdb := freemium.NewRedisClient(cfg.Redis); rdb != nil {
			defer rdb.Close()
			ledger = freemium.NewRedisLedger(rdb, cfg.Redis.FreemiumTTL)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("freemium ledger backed by redis")
		} else {
			log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable; freemium ledger is in memory")
		}
	}

	// --- Identity and sessions ---
	var verifier identity.SocialVerifier
	if cfg.Firebase.Enabled {
		fv, err := identity.NewFirebaseVerifier(ctx, identity.FirebaseConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			Logger:          log,
		})
		if err != nil {
			log.Error().Err(err).Msg("firebase unavailable; Google sign-in disabled")
		} else {
			verifier = fv
			log.Info().Msg("Google sign-in verifier initialized")
		}
	}
	provider := identity.NewProvider(identity.Config{
		Credentials: store.Credentials,
		Verifier:    verifier,
		Events:      publisher,
		Logger:      log,
	})
	registry := session.NewRegistry(session.RegistryConfig{
		Provider:      provider,
		Users:         store.Users,
		Events:        publisher,
		Logger:        log,
		TrialPeriod:   cfg.Membership.TrialPeriod,
		RevocationTTL: cfg.JWT.Expiration,
	})
	go registry.RunSweeper(ctx, sweepInterval, cfg.Membership.SessionIdleTimeout)

	// --- Services ---
	clock := service.Clock(time.Now)
	authService := service.NewAuthService(service.AuthConfig{
		Registry:      registry,
		Provider:      provider,
		JWTSecret:     cfg.JWT.Secret,
		JWTExpiration: cfg.JWT.Expiration,
		Logger:        log,
		Now:           clock,
	})
	uploadService := service.NewUploadService(fileStorage, cfg.Uploads.PresignExpiry, log, clock)

	svc := api.Services{
		Auth:    authService,
		Profile: service.NewProfileService(log),
		Uploads: uploadService,
		Analysis: service.NewAnalysisService(service.AnalysisConfig{
			Store:     store,
			Generator: generator.NewBodyAnalysisGenerator(generator.Options{Delay: cfg.Generators.BodyAnalysisDelay}),
			Uploads:   uploadService,
			Events:    publisher,
			Logger:    log,
			Now:       clock,
		}),
		Workout: service.NewWorkoutService(store, log, clock),
		Diet: service.NewDietService(service.DietConfig{
			Store:     store,
			Generator: generator.NewBloodTestGenerator(generator.Options{Delay: cfg.Generators.BloodTestDelay}),
			Uploads:   uploadService,
			Events:    publisher,
			Logger:    log,
			Now:       clock,
		}),
		Coach: service.NewCoachService(store,
			generator.NewCoachPlanGenerator(generator.Options{Delay: cfg.Generators.CoachPlanDelay}),
			publisher, log, clock),
		Progress: service.NewProgressService(store.Progress, log, clock),
		Access:   service.NewAccessService(access.NewScanner(access.DefaultDirectory, time.Now), log, clock),
		Membership: service.NewMembershipService(service.MembershipConfig{
			Users:       store.Users,
			Registry:    registry,
			Auth:        authService,
			Events:      publisher,
			CancelDelay: cfg.Membership.CancelDelay,
			Logger:      log,
			Now:         clock,
		}),
		Freemium: service.NewFreemiumService(ledger,
			generator.NewFreemiumGenerator(generator.Options{Delay: cfg.Generators.FreemiumDelay}), log),
	}

	// --- HTTP ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(log))
	api.SetupRoutes(router, svc)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization", api.RequestIDHeader, api.DeviceIDHeader},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", api.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      c.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}
