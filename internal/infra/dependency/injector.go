// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budgetflow/backend/config"
	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/application/usecase/auth"
	"github.com/budgetflow/backend/internal/application/usecase/budget"
	"github.com/budgetflow/backend/internal/application/usecase/category"
	"github.com/budgetflow/backend/internal/application/usecase/generation"
	"github.com/budgetflow/backend/internal/application/usecase/suggestion"
	"github.com/budgetflow/backend/internal/infra/server/router"
	"github.com/budgetflow/backend/internal/integration/adapters"
	"github.com/budgetflow/backend/internal/integration/entrypoint/controller"
	"github.com/budgetflow/backend/internal/integration/entrypoint/middleware"
	"github.com/budgetflow/backend/internal/integration/notification"
	"github.com/budgetflow/backend/internal/integration/notification/templates"
	"github.com/budgetflow/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router

	// Generator is the opportunistic generation entry point. Exposed so
	// main can wait for in-flight runs during shutdown.
	Generator *generation.MaybeGenerateUseCase

	// NotificationWorker drains the notification queue. Nil when the
	// worker is disabled by configuration.
	NotificationWorker *notification.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; the distributed trigger guard then falls back to
// the in-process guard.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	templateRepo := persistence.NewTemplateRepository(db)
	instanceRepo := persistence.NewInstanceRepository(db)
	notificationRepo := persistence.NewNotificationRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	suggestionService := adapters.NewGeminiService(cfg.AI.GeminiAPIKey)

	// Notification pipeline
	notificationService := notification.NewService(notificationRepo, userRepo, cfg.Notification.AppBaseURL)
	var notificationWorker *notification.Worker
	if cfg.Notification.WorkerEnabled {
		renderer, err := templates.NewRenderer()
		if err != nil {
			slog.Error("Failed to load notification templates, worker disabled", "error", err)
		} else {
			var sender adapter.NotificationSender
			if cfg.Notification.ResendAPIKey != "" {
				sender = notification.NewResendClient(cfg.Notification.ResendAPIKey, cfg.Notification.FromName, cfg.Notification.FromEmail)
			} else {
				slog.Warn("RESEND_API_KEY not set, notification deliveries are mocked")
				sender = notification.NewMockSender()
			}
			notificationWorker = notification.NewWorker(notificationRepo, sender, renderer, notification.WorkerConfig{
				PollInterval: cfg.Notification.PollInterval,
				BatchSize:    cfg.Notification.BatchSize,
			})
		}
	}

	// Generation engine
	var generator *generation.MaybeGenerateUseCase
	if cfg.Generation.Enabled {
		runUseCase := generation.NewRunUseCase(templateRepo, instanceRepo, notificationService, cfg.Generation.RunDeadline)
		var guard generation.TriggerGuard
		if cfg.Generation.DistributedGuard && redisClient != nil {
			guard = adapters.NewRedisTriggerGuard(redisClient, cfg.Generation.ThrottleInterval)
		} else {
			guard = generation.NewInProcessGuard(cfg.Generation.ThrottleInterval)
		}
		generator = generation.NewMaybeGenerateUseCase(guard, runUseCase)
	}

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create category use cases
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create budget use cases
	createTemplateUseCase := budget.NewCreateTemplateUseCase(templateRepo, categoryRepo)
	listTemplatesUseCase := budget.NewListTemplatesUseCase(templateRepo)
	updateTemplateUseCase := budget.NewUpdateTemplateUseCase(templateRepo)
	deleteTemplateUseCase := budget.NewDeleteTemplateUseCase(templateRepo)
	listInstancesUseCase := budget.NewListInstancesUseCase(instanceRepo)
	updateInstanceUseCase := budget.NewUpdateInstanceUseCase(instanceRepo)
	deleteInstanceUseCase := budget.NewDeleteInstanceUseCase(instanceRepo)
	suggestAmountUseCase := suggestion.NewSuggestAmountUseCase(templateRepo, instanceRepo, categoryRepo, suggestionService)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	categoryController := controller.NewCategoryController(
		createCategoryUseCase,
		listCategoriesUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	budgetController := controller.NewBudgetController(
		createTemplateUseCase,
		listTemplatesUseCase,
		updateTemplateUseCase,
		deleteTemplateUseCase,
		listInstancesUseCase,
		updateInstanceUseCase,
		deleteInstanceUseCase,
		suggestAmountUseCase,
		generator,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, categoryController, budgetController, loginRateLimiter, authMiddleware)

	return &Injector{
		Config:             cfg,
		DB:                 db,
		Router:             r,
		Generator:          generator,
		NotificationWorker: notificationWorker,
	}
}
