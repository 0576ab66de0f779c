// Package server assembles the HTTP application.
package server

import (
	"fmt"
	"time"

	"meddata/internal/cache"
	"meddata/internal/config"
	"meddata/internal/handlers"
	"meddata/internal/middleware"
	"meddata/internal/repositories"
	"meddata/internal/services"
	"meddata/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// Dependencies are the external resources the application runs on.
type Dependencies struct {
	DB     *gorm.DB
	Files  afero.Fs
	Cache  cache.Cache
	Events services.EventPublisher
	Log    *logrus.Logger
	// Clock drives token expiry and attachment names. Nil means time.Now.
	Clock func() time.Time
}

// New wires repositories, services and handlers into a Fiber app.
func New(cfg *config.Config, deps Dependencies) (*fiber.App, error) {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Events == nil {
		deps.Events = services.NoopPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	log := deps.Log

	attachments, err := storage.NewFileStore(deps.Files, cfg.Upload.Dir, cfg.Upload.URLPrefix, int64(cfg.Upload.MaxBytes), log)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare attachment storage: %w", err)
	}
	attachments.SetClock(deps.Clock)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	profileRepo := repositories.NewGORMProfileRepository(deps.DB)
	referenceRepo := repositories.NewGORMReferenceRepository(deps.DB)
	recordRepo := repositories.NewRecordRepository(deps.DB)
	vitalsRepo := repositories.NewVitalsRepository(deps.DB)
	reminderRepo := repositories.NewReminderRepository(deps.DB)
	courseRepo := repositories.NewCourseRepository(deps.DB)
	complaintRepo := repositories.NewComplaintRepository(deps.DB)

	// --- Services ---
	referenceService := services.NewReferenceService(referenceRepo, deps.Cache, log)
	authService := services.NewAuthService(userRepo, referenceService, cfg.JWT, deps.Events, log)
	authService.SetClock(deps.Clock)
	shareService := services.NewShareService(authService, profileRepo, recordRepo, vitalsRepo)
	profileService := services.NewProfileService(profileRepo)
	vitalsService := services.NewVitalsService(vitalsRepo)
	recordService := services.NewRecordService(recordRepo, courseRepo, attachments, deps.Events, log)
	reminderService := services.NewReminderService(reminderRepo, deps.Events, log)
	courseService := services.NewCourseService(courseRepo)
	complaintService := services.NewComplaintService(complaintRepo, courseRepo)

	app := fiber.New(fiber.Config{
		AppName: "meddata",
		// Multipart uploads are bounded by the attachment limit plus form overhead.
		BodyLimit: cfg.Upload.MaxBytes + 1<<20,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORS.AllowOrigins}))
	app.Use(attachments.URLPrefix(), filesystem.New(filesystem.Config{
		Root: attachments.FileSystem(),
	}))

	authRequired := middleware.AuthRequired(authService, log)

	handlers.NewHealthHandler(deps.DB).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, log).RegisterRoutes(app, authRequired)
	handlers.NewReferenceHandler(referenceService, log).RegisterRoutes(app, authRequired)
	handlers.NewShareHandler(shareService, log).RegisterRoutes(app, authRequired)
	handlers.NewProfileHandler(profileService, log).RegisterRoutes(app, authRequired)
	handlers.NewVitalsHandler(vitalsService, log).RegisterRoutes(app, authRequired)
	handlers.NewRecordHandler(recordService, log).RegisterRoutes(app, authRequired)
	handlers.NewReminderHandler(reminderService, log).RegisterRoutes(app, authRequired)
	handlers.NewCourseHandler(courseService, complaintService, log).RegisterRoutes(app, authRequired)

	return app, nil
}
