package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/Asus75000/sae-prof/internal/app/controllers"
	appMigrations "github.com/Asus75000/sae-prof/internal/app/migrations"
	appRepos "github.com/Asus75000/sae-prof/internal/app/repositories"
	appRoutes "github.com/Asus75000/sae-prof/internal/app/routes"
	appServices "github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/config"
	"github.com/Asus75000/sae-prof/internal/db"
	appMiddleware "github.com/Asus75000/sae-prof/internal/middleware"
	pkgAuth "github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/Asus75000/sae-prof/internal/pkg/email"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/pkg/ratelimit"
	"github.com/Asus75000/sae-prof/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Limiter        ratelimit.Limiter
	// Redis is nil unless the redis rate limit backend is selected
	Redis  *redis.Client
	Clock  appServices.Clock
	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: lgr,
		Clock:  appServices.SystemClock(cfg.Location()),
		Repos:  appRepos.NewRepositories(database),
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	if err := setupLimiter(cfg, deps); err != nil {
		return nil, err
	}

	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		SiteName:  cfg.App.SiteName,
		SiteURL:   cfg.App.SiteURL,
		Locale:    cfg.App.Locale,
		MaxTries:  cfg.SMTP.MaxTries,
	}, logger.Component("email"))

	repos := deps.Repos
	deps.Services = appServices.Services{
		AuthService:     appServices.NewAuthService(repos.MemberRepository, deps.JWTService, logger.Component("auth")),
		MemberService:   appServices.NewMemberService(repos.MemberRepository, notifier, deps.Clock, logger.Component("members")),
		CategoryService: appServices.NewCategoryService(repos.CategoryRepository),
		SportEventService: appServices.NewSportEventService(
			repos.SportEventRepository,
			repos.CategoryRepository,
			repos.TimeSlotRepository,
			repos.RegistrationRepository,
			deps.Clock,
		),
		TimeSlotService:         appServices.NewTimeSlotService(repos.TimeSlotRepository, repos.SportEventRepository),
		AssociationEventService: appServices.NewAssociationEventService(repos.AssociationEventRepository, deps.Clock),
		RegistrationService: appServices.NewRegistrationService(
			repos.RegistrationRepository,
			repos.SportEventRepository,
			repos.TimeSlotRepository,
			repos.AssociationEventRepository,
			deps.Clock,
			logger.Component("registrations"),
		),
		StatsService: appServices.NewStatsService(repos.MemberRepository, repos.SportEventRepository, repos.AssociationEventRepository),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.MemberRepository)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:             appControllers.NewAuthController(svc.AuthService, svc.MemberService, deps.Limiter, logger.Component("auth")),
		Member:           appControllers.NewMemberController(svc.MemberService),
		Category:         appControllers.NewCategoryController(svc.CategoryService),
		SportEvent:       appControllers.NewSportEventController(svc.SportEventService, svc.TimeSlotService),
		AssociationEvent: appControllers.NewAssociationEventController(svc.AssociationEventService),
		Registration:     appControllers.NewRegistrationController(svc.RegistrationService),
		Stats:            appControllers.NewStatsController(svc.StatsService),
	}

	if cfg.Seed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := seed.CreateDefaultData(ctx, repos.MemberRepository, repos.CategoryRepository, seed.Options{
			AdminEmail:     cfg.Seed.AdminEmail,
			AdminPassword:  cfg.Seed.AdminPassword,
			AdminFirstName: cfg.Seed.AdminFirstName,
			AdminLastName:  cfg.Seed.AdminLastName,
			Categories:     cfg.Seed.Categories,
			Today:          deps.Clock.Today(),
		}, logger.Component("seed"))
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

func setupLimiter(cfg *config.Config, deps *Dependencies) error {
	policies := map[ratelimit.Action]ratelimit.Policy{
		ratelimit.ActionLogin: {
			MaxAttempts: cfg.RateLimit.LoginMax,
			Window:      helpers.ParseDuration(cfg.RateLimit.LoginWindow, ratelimit.DefaultPolicies[ratelimit.ActionLogin].Window),
		},
		ratelimit.ActionRegister: {
			MaxAttempts: cfg.RateLimit.RegisterMax,
			Window:      helpers.ParseDuration(cfg.RateLimit.RegisterWindow, ratelimit.DefaultPolicies[ratelimit.ActionRegister].Window),
		},
	}

	if strings.ToLower(cfg.RateLimit.Backend) != "redis" {
		deps.Limiter = ratelimit.NewMemoryLimiter(policies)
		deps.Logger.Info().Msg("Using in-memory rate limiter")
		return nil
	}

	client := ratelimit.NewRedisClient(ratelimit.RedisOptions{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
		Prefix:   cfg.RateLimit.RedisPrefix,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		deps.Logger.Error().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("Failed to reach redis")
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	deps.Redis = client
	deps.Limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimit.RedisPrefix, policies)
	deps.Logger.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("Using redis rate limiter")
	return nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
