package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/campusboard/timetable-backend/internal/clients/redis"
	"github.com/campusboard/timetable-backend/internal/config"
	"github.com/campusboard/timetable-backend/internal/db"
	"github.com/campusboard/timetable-backend/internal/handlers"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/middleware"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/server"
	"github.com/campusboard/timetable-backend/internal/services"
	"github.com/campusboard/timetable-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

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

	// Config
	log.Info("Loading configuration from main...")
	cfg := config.Load(log)

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
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	roomRepo := repos.NewRoomRepo(thePG, log)
	groupRepo := repos.NewGroupRepo(thePG, log)
	lecturerRepo := repos.NewLecturerRepo(thePG, log)
	eventRepo := repos.NewEventRepo(thePG, log)
	photoRepo := repos.NewPhotoRepo(thePG, log)
	lectCommentRepo := repos.NewCommentLecturerRepo(thePG, log)
	eventCommentRepo := repos.NewCommentEventRepo(thePG, log)
	credRepo := repos.NewCalendarCredentialRepo(thePG, log)

	// Moderation
	engine := moderation.NewEngine(cfg.Moderation, log)

	// Optional collaborators: the API keeps serving schedules without them.
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, photo upload disabled", "error", err)
		bucketService = nil
	}
	var syncQueue services.SyncQueue
	redisQueue, err := redis.NewSyncQueue(log)
	if err != nil {
		log.Warn("Could not init sync queue, calendar push disabled", "error", err)
	} else {
		syncQueue = redisQueue
		defer redisQueue.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo,
		cfg.JWTSecretKey, cfg.SignupCode, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	roomService := services.NewRoomService(thePG, log, roomRepo)
	groupService := services.NewGroupService(thePG, log, groupRepo)
	lecturerService := services.NewLecturerService(thePG, log, lecturerRepo, photoRepo, lectCommentRepo)
	exportService := services.NewExportService(log, eventRepo, groupRepo,
		cfg.Academic, cfg.ExportCacheDir, cfg.ExportCacheTTL)
	provider := services.NewGoogleCalendarProvider(log, cfg.GoogleClientID, cfg.GoogleClientSecret)
	syncService := services.NewSyncService(thePG, log, groupRepo, credRepo, exportService, provider, syncQueue)
	eventService := services.NewEventService(thePG, log, eventRepo, roomRepo, groupRepo, lecturerRepo, eventCommentRepo, syncService)
	commentService := services.NewCommentService(thePG, log, engine, lecturerRepo, eventRepo, lectCommentRepo, eventCommentRepo)
	photoService := services.NewPhotoService(thePG, log, engine, lecturerRepo, photoRepo, bucketService)

	// Background sync worker
	if syncQueue != nil {
		worker := services.NewSyncWorker(log, syncQueue, syncService)
		worker.Start(context.Background())
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	roomHandler := handlers.NewRoomHandler(roomService)
	groupHandler := handlers.NewGroupHandler(groupService)
	lecturerHandler := handlers.NewLecturerHandler(lecturerService)
	eventHandler := handlers.NewEventHandler(eventService)
	commentHandler := handlers.NewCommentHandler(commentService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	exportHandler := handlers.NewExportHandler(exportService)
	syncHandler := handlers.NewSyncHandler(syncService)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	var allowOrigins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		allowOrigins = strings.Split(raw, ",")
	}

	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:    allowOrigins,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		RoomHandler:     roomHandler,
		GroupHandler:    groupHandler,
		LecturerHandler: lecturerHandler,
		EventHandler:    eventHandler,
		CommentHandler:  commentHandler,
		PhotoHandler:    photoHandler,
		ExportHandler:   exportHandler,
		SyncHandler:     syncHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting HTTP server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
