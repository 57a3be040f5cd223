package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/app/jobs"
	appMigrations "github.com/yigit/learnhub/internal/app/migrations"
	appRepos "github.com/yigit/learnhub/internal/app/repositories"
	appRoutes "github.com/yigit/learnhub/internal/app/routes"
	appServices "github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/cache"
	"github.com/yigit/learnhub/internal/config"
	"github.com/yigit/learnhub/internal/db"
	appMiddleware "github.com/yigit/learnhub/internal/middleware"
	pkgAuth "github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/email"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/helpers"
	"github.com/yigit/learnhub/internal/pkg/logger"
	"github.com/yigit/learnhub/internal/pkg/session"
	"github.com/yigit/learnhub/internal/pkg/websocket"
	"github.com/yigit/learnhub/internal/seed"
)

// rate limiter entries idle for this long are dropped by the cleanup job
const visitorIdleTimeout = 30 * time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	Redis               *redis.Client
	JWTService          *pkgAuth.JWTService
	Sessions            *session.Store
	CourseCache         *session.CourseCache
	FileStorage         *filestorage.LocalStorage
	Mailer              *email.EmailServiceImpl
	Hub                 *websocket.Hub
	NotificationService *appServices.NotificationService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	RateLimiter         *appMiddleware.RateLimiter
	Metrics             *appMiddleware.Metrics
	WebsocketHandler    *websocket.Handler
	Scheduler           *jobs.Scheduler
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrator"))

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects the session and course cache store.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to Redis...")
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: rdb}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := strings.TrimRight(cfg.Server.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Mailer, err = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, logger.Component("email"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize email service")
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		AccessSecret:     cfg.JWT.AccessSecret,
		RefreshSecret:    cfg.JWT.RefreshSecret,
		ActivationSecret: cfg.JWT.ActivationSecret,
		AccessTokenExp:   helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 5*time.Minute),
		RefreshTokenExp:  helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 7*24*time.Hour),
		ActivationExp:    helpers.ParseDuration(cfg.JWT.ActivationExpiration, 5*time.Minute),
		TokenIssuer:      cfg.JWT.Issuer,
	})

	deps.Sessions = session.NewStore(rdb, deps.JWTService.RefreshTokenTTL())
	deps.CourseCache = session.NewCourseCache(rdb, helpers.ParseDuration(cfg.Redis.CourseCacheTTL, 7*24*time.Hour))
	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	// Initialize services
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Hub,
		logger.Component("notifications"),
	)
	authService := appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Sessions,
		deps.JWTService,
		deps.Mailer,
		deps.FileStorage,
		logger.Component("auth"),
	)
	userService := appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Sessions,
		deps.FileStorage,
		logger.Component("users"),
	)
	courseService := appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.CourseCache,
		deps.FileStorage,
		deps.Mailer,
		deps.NotificationService,
		logger.Component("courses"),
	)
	orderService := appServices.NewOrderService(
		deps.Repos.OrderRepository,
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Sessions,
		deps.CourseCache,
		deps.Mailer,
		deps.NotificationService,
		cfg.Server.ClientURL,
		logger.Component("orders"),
	)
	layoutService := appServices.NewLayoutService(deps.Repos.LayoutRepository, deps.FileStorage, logger.Component("layout"))
	analyticsService := appServices.NewAnalyticsService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.OrderRepository,
		logger.Component("analytics"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Sessions)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	deps.Metrics = appMiddleware.NewMetrics("learnhub")
	deps.WebsocketHandler = websocket.NewHandler(deps.Hub, appMiddleware.GetCurrentUser, logger.Component("websocket"))

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(authService, appControllers.CookieConfig{
			Domain:     cfg.Server.CookieDomain,
			Secure:     cfg.IsProduction(),
			AccessTTL:  deps.JWTService.AccessTokenTTL(),
			RefreshTTL: deps.JWTService.RefreshTokenTTL(),
		}, logger.Component("auth")),
		User:         appControllers.NewUserController(userService),
		Course:       appControllers.NewCourseController(courseService, logger.Component("courses")),
		Order:        appControllers.NewOrderController(orderService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Layout:       appControllers.NewLayoutController(layoutService),
		Analytics:    appControllers.NewAnalyticsController(analyticsService),
		Metrics:      deps.Metrics.Handler(),
	}

	deps.Scheduler = jobs.NewScheduler(logger.Component("jobs"))
	retention := helpers.ParseDuration(cfg.Jobs.NotificationRetention, 30*24*time.Hour)
	if err := deps.Scheduler.AddNotificationCleanup(cfg.Jobs.NotificationCleanupSchedule, deps.NotificationService, retention); err != nil {
		return nil, err
	}
	if err := deps.Scheduler.AddRateLimiterCleanup("@every 10m", deps.RateLimiter, visitorIdleTimeout); err != nil {
		return nil, err
	}

	return deps, nil
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
	// ClientIP feeds the rate limiter, so forwarded headers count only from known proxies
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		lgr.Error().Err(err).Strs("trustedProxies", cfg.Server.TrustedProxies).Msg("Invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		deps.Metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.Server.ClientURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		appMiddleware.BodyLimit(int64(cfg.Server.BodyLimitMB)<<20),
	)

	appRoutes.SetupRouter(router,
		deps.Controllers,
		deps.AuthMiddleware,
		deps.RateLimiter,
		deps.WebsocketHandler,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.NoRoute(appMiddleware.NoRoute)

	return router
}
