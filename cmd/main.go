package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/app"
	"github.com/yungbote/moodjournal-backend/internal/clients/gcp"
	"github.com/yungbote/moodjournal-backend/internal/clients/huggingface"
	"github.com/yungbote/moodjournal-backend/internal/data/db"
	entryrepo "github.com/yungbote/moodjournal-backend/internal/data/repos/entry"
	httpx "github.com/yungbote/moodjournal-backend/internal/http"
	httpH "github.com/yungbote/moodjournal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodjournal-backend/internal/http/middleware"
	"github.com/yungbote/moodjournal-backend/internal/observability"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/realtime"
	"github.com/yungbote/moodjournal-backend/internal/realtime/bus"
	"github.com/yungbote/moodjournal-backend/internal/services"
	"github.com/yungbote/moodjournal-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cfg := app.LoadConfig(log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "moodjournal-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	entryRepo := entryrepo.NewEntryRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := realtime.NewSSEHub(log)

	// Bus (optional; single-instance deploys run hub-only)
	var sseBus bus.Bus
	if b, busErr := bus.NewRedisBus(log); busErr != nil {
		log.Warn("Redis bus unavailable; running hub-only", "error", busErr)
	} else {
		sseBus = b
		defer sseBus.Close()
	}
	var emitter services.SSEEmitter
	if sseBus != nil {
		emitter = &services.BusEmitter{Log: log, Bus: sseBus}
	} else {
		emitter = &services.HubEmitter{Hub: sseHub}
	}

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService; image uploads disabled", "error", err)
	}
	var classifier services.TextClassifier
	if hfClient, hfErr := huggingface.New(log, huggingface.Config{
		Endpoint: cfg.ClassifierURL,
		Token:    cfg.ClassifierToken,
		Timeout:  cfg.ClassifierTimeout,
	}); hfErr != nil {
		log.Warn("Could not init sentiment classifier; feedback will be unavailable", "error", hfErr)
	} else {
		classifier = hfClient
	}

	mediaService := services.NewMediaService(log, bucketService)
	sentimentService := services.NewSentimentService(log, classifier)
	recService := services.NewRecommendationService()
	projectionService := services.NewProjectionService(log)
	journalService := services.NewJournalService(
		thePG,
		log,
		entryRepo,
		mediaService,
		sentimentService,
		recService,
		emitter,
	)

	// Forwarder: every instance feeds its local hub and refreshes its local
	// snapshot feeds from bus traffic.
	if sseBus != nil {
		err = sseBus.StartForwarder(context.Background(), func(m realtime.SSEMessage) {
			sseHub.Broadcast(m)
			if m.Event == realtime.SSEEventEntryCreated {
				if userID, parseErr := uuid.Parse(m.Channel); parseErr == nil {
					journalService.NotifyChanged(userID)
				}
			}
		})
		if err != nil {
			log.Warn("Bus forwarder failed to start", "error", err)
		}
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	entryHandler := httpH.NewEntryHandler(log, journalService, projectionService)
	realtimeHandler := httpH.NewRealtimeHandler(log, sseHub, journalService)
	healthHandler := httpH.NewHealthHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)

	// Router
	log.Info("Setting up router from main...")
	server := httpx.NewServer(httpx.RouterConfig{
		AuthMiddleware:  authMiddleware,
		EntryHandler:    entryHandler,
		RealtimeHandler: realtimeHandler,
		HealthHandler:   healthHandler,
	})

	fmt.Printf("Server listening on %s\n", cfg.HTTPAddr)
	if err := server.Run(cfg.HTTPAddr); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
