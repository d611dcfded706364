package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/config"
	"github.com/learnhub-io/learnhub-api/internal/database"
	"github.com/learnhub-io/learnhub-api/internal/handler"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
	"github.com/learnhub-io/learnhub-api/internal/router"
	"github.com/learnhub-io/learnhub-api/internal/service"
	cloud "github.com/learnhub-io/learnhub-api/pkg/cloudinary"
	"github.com/learnhub-io/learnhub-api/pkg/mail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Subject{},
		&models.Review{},
		&models.Student{},
		&models.StudentProfile{},
		&models.Blog{},
		&models.BlogComment{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	mailer := mail.New(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.SessionTTL, logger)
	resetService := service.NewPasswordResetService(userRepo, mailer, validate, cfg.JWTSecret, cfg.ResetTokenTTL, cfg.SessionTTL, cfg.BaseURL, logger)
	dashboardService := service.NewDashboardService(subjectRepo, studentRepo, reviewRepo, redisClient, cfg.DashboardCacheTTL, logger)
	subjectService := service.NewSubjectService(subjectRepo, reviewRepo, userRepo, validate, dashboardService, logger)
	studentService := service.NewStudentService(studentRepo, subjectRepo, validate, dashboardService, logger)
	blogService := service.NewBlogService(blogRepo, userRepo, validate, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxSizeMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authService, resetService, logger),
		SubjectHandler:   handler.NewSubjectHandler(subjectService, logger),
		BlogHandler:      handler.NewBlogHandler(blogService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		StudentHandler:   handler.NewStudentHandler(studentService, logger),
		UploadHandler:    handler.NewUploadHandler(uploadService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
