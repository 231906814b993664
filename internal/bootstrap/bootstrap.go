package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/placementportal/internal/app/auth"
	appControllers "github.com/yigit/placementportal/internal/app/controllers"
	appMigrations "github.com/yigit/placementportal/internal/app/migrations"
	appRepos "github.com/yigit/placementportal/internal/app/repositories"
	appRoutes "github.com/yigit/placementportal/internal/app/routes"
	appServices "github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/config"
	"github.com/yigit/placementportal/internal/db"
	appMiddleware "github.com/yigit/placementportal/internal/middleware"
	pkgAuth "github.com/yigit/placementportal/internal/pkg/auth"
	"github.com/yigit/placementportal/internal/pkg/email"
	"github.com/yigit/placementportal/internal/pkg/filestorage"
	"github.com/yigit/placementportal/internal/pkg/logger"
	"github.com/yigit/placementportal/internal/pkg/profilescraper"
	"github.com/yigit/placementportal/internal/pkg/ratelimit"
	"github.com/yigit/placementportal/internal/pkg/reporting"
	"github.com/yigit/placementportal/internal/pkg/resumeanalyzer"
	"github.com/yigit/placementportal/internal/pkg/websocket"
	"github.com/yigit/placementportal/internal/seed"
)

// DefaultConfigPath is read when it exists; environment variables override it
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client // nil when rate limiting is disabled
	Repos    *appRepos.Repositories
	Services appServices.Services

	Hasher       *pkgAuth.PasswordHasher
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	Reporter     reporting.Reporter

	MarqueeHub    *websocket.Hub
	SessionReaper *appServices.SessionReaper

	AuthMiddleware *appMiddleware.AuthMiddleware
	Handlers       appRoutes.Handlers

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:   cfg.Logging.Level,
		Pretty:  strings.EqualFold(cfg.Logging.Format, "text"),
		Service: "placementportal",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if !cfg.Database.AutoMigrate {
		return database.Pool, nil
	}

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.Up(ctx, cfg.GetPostgresConnectionString())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", len(applied)).Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// BuildDependencies initializes repositories, collaborators, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Pool: pool, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(pool)

	deps.Reporter = reporting.New(reporting.Config{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Rollbar.Environment,
	})
	appMiddleware.SetErrorReporter(deps.Reporter)

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Redis = rdb
		limiter = ratelimit.NewRedisLimiter(rdb, "forgot-password:", cfg.Redis.ForgotPasswordLimit, cfg.Redis.ForgotPasswordWindow)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Forgot-password rate limiting enabled")
	} else {
		lgr.Warn().Msg("REDIS_ADDR not set, forgot-password rate limiting disabled")
	}

	mailer, err := email.NewSender(email.Config{
		Provider:       cfg.Email.Provider,
		FromEmail:      cfg.Email.From,
		FromName:       cfg.Email.FromName,
		SMTPHost:       cfg.Email.SMTPHost,
		SMTPPort:       cfg.Email.SMTPPort,
		SMTPUser:       cfg.Email.SMTPUser,
		SMTPPassword:   cfg.Email.SMTPPassword,
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
	}, logger.WithComponent("email"))
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	storage, err := filestorage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Hasher = pkgAuth.NewPasswordHasher(0)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.JWT.Expiration,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository, deps.JWTService)

	deps.MarqueeHub = websocket.NewHub(logger.WithComponent("marquee-hub"))

	deps.Services = appServices.Services{
		Auth: appServices.NewAuthService(
			deps.Repos.UserRepository,
			deps.JWTService,
			deps.Hasher,
			mailer,
			limiter,
			appServices.AuthConfig{FrontendURL: cfg.Frontend.URL},
			lgr,
		),
		DSA:     appServices.NewDSAService(deps.Repos.TopicRepository, deps.Repos.QuestionRepository, lgr),
		Company: appServices.NewCompanyService(deps.Repos.CompanyRepository, lgr),
		Session: appServices.NewSessionService(deps.Repos.SessionRepository, lgr),
		Marquee: appServices.NewMarqueeService(deps.Repos.MarqueeRepository, deps.MarqueeHub, lgr),
		Resume: appServices.NewResumeService(storage,
			resumeanalyzer.NewHTTPAnalyzer(cfg.ResumeAnalyzer.URL, cfg.ResumeAnalyzer.Timeout), lgr),
		Profile: appServices.NewProfileService(deps.Repos.UserRepository,
			profilescraper.NewCommandScraper(cfg.ProfileScraper.Command, cfg.ProfileScraper.Args, cfg.ProfileScraper.Timeout), lgr),
	}
	deps.SessionReaper = appServices.NewSessionReaper(deps.Services.Session, cfg.Sessions.ReapInterval, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthzService)

	health := map[string]appControllers.Pinger{"database": pool}
	if deps.Redis != nil {
		rdb := deps.Redis
		health["redis"] = appControllers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	deps.Handlers = appRoutes.Handlers{
		Auth:    appControllers.NewAuthController(deps.Services.Auth, lgr),
		DSA:     appControllers.NewDSAController(deps.Services.DSA, lgr),
		Company: appControllers.NewCompanyController(deps.Services.Company, lgr),
		Session: appControllers.NewSessionController(deps.Services.Session, lgr),
		Marquee: appControllers.NewMarqueeController(deps.Services.Marquee, lgr),
		Resume:  appControllers.NewResumeController(deps.Services.Resume, lgr),
		Profile: appControllers.NewProfileController(deps.Services.Profile, lgr),
		Health:  appControllers.NewHealthController(health),

		MarqueeSocket: websocket.NewHandler(deps.MarqueeHub, deps.Services.Marquee.Snapshot, cfg.Server.CORSOrigins, lgr),
	}

	return deps, nil
}

// SeedDefaultData creates the configured admin and imports the configured DSA
// sheet. Failures are collected, not fatal.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	var finalErr error

	err := seed.EnsureAdmin(ctx, deps.Repos.UserRepository, deps.Hasher, seed.Admin{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, deps.Logger)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create admin user")
		finalErr = errors.Join(finalErr, err)
	}

	if cfg.Seed.SheetPath != "" {
		sheet, err := seed.LoadSheet(cfg.Seed.SheetPath)
		if err == nil {
			_, err = seed.ImportSheet(ctx, deps.Services.DSA, sheet, deps.Logger)
		}
		if err != nil {
			deps.Logger.Error().Err(err).Str("path", cfg.Seed.SheetPath).Msg("Failed to import DSA sheet")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Recovery(),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
	)
	router.MaxMultipartMemory = cfg.ResumeAnalyzer.MaxUploadSize

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	return router
}

// Close releases the connections owned by the dependencies
func (d *Dependencies) Close() {
	if d.Reporter != nil {
		if err := d.Reporter.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to flush error reporter")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}
