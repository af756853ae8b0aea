package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/builderhome/backend/internal/email"
	"github.com/builderhome/backend/internal/handlers"
	"github.com/builderhome/backend/internal/jwt"
	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/middlewares"
	"github.com/builderhome/backend/internal/repositories"
	"github.com/builderhome/backend/internal/services"

	_ "github.com/builderhome/backend/docs"
	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title builder-home API
// @version 1.0.0
// @description Backend for the builder-home portfolio platform: accounts, authentication and password recovery
// @host localhost:8080
// @BasePath /api/v1/users
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, userCacheExpSecond,
		kafkaBrokers, kafkaTopic,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
		resetURLBase, logLevel,
		jwtSecret, jwtExp,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, userCacheExpSecond,
		kafkaBrokers, kafkaTopic,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
		resetURLBase, logLevel,
		jwtSecret, jwtExp,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, SMTP, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, userCacheExpSecond int,
	kafkaBrokers, kafkaTopic string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
	resetURLBase, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "builderhome")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if userCacheExpSecond, err = strconv.Atoi(getEnv("REDIS_USER_CACHE_EXP_SECOND", "60")); err != nil {
		return
	}

	// Kafka config (empty brokers disable event publishing)
	kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "auth-events")

	// SMTP config
	smtpHost = getEnv("SMTP_HOST", "localhost")
	if smtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return
	}
	smtpUser = getEnv("SMTP_USER", "")
	smtpPassword = getEnv("SMTP_PASSWORD", "")
	smtpFrom = getEnv("SMTP_FROM", "Gary <builderhome@home.co>")

	// Password reset config
	resetURLBase = getEnv("RESET_URL_BASE", "https://builder-home.vercel.app/reset_password")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, userCacheExpSecond int,
	kafkaBrokers, kafkaTopic string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
	resetURLBase, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for auth events (optional)
	var kafkaWriter *kafka.Writer
	if kafkaBrokers != "" {
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(kafkaBrokers, ",")...),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kafkaWriter.Close()
	}

	// Initialize JWT service
	jwtSvc := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	userCacheRepo := repositories.NewUserCacheRepository(rdb, time.Duration(userCacheExpSecond)*time.Second)
	cachedUserReader := repositories.NewCachedUserReader(userCacheRepo, userReadRepo)

	// Initialize email sender
	emailSender := email.NewSender(smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom)

	// Initialize services
	authOpts := []services.AuthOpt{
		services.WithEmailSender(emailSender),
		services.WithUserCache(userCacheRepo),
		services.WithResetURLBase(resetURLBase),
	}
	if kafkaWriter != nil {
		authOpts = append(authOpts, services.WithKafkaWriter(kafkaWriter))
	}
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwtSvc, authOpts...)
	signupValidator := services.NewSignupValidator(userReadRepo)
	userService := services.NewUserService(userReadRepo, userWriteRepo, userCacheRepo)

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(authService, signupValidator)
	loginHandler := handlers.NewLoginHandler(authService)
	forgotPasswordHandler := handlers.NewForgotPasswordHandler(authService)
	validateResetTokenHandler := handlers.NewValidateResetTokenHandler(authService)
	resetPasswordHandler := handlers.NewResetPasswordHandler(authService)
	changePasswordHandler := handlers.NewChangePasswordHandler(authService)
	listArchitectsHandler := handlers.NewListArchitectsHandler(userService)
	getUserHandler := handlers.NewGetUserHandler(userService)
	updateUserHandler := handlers.NewUpdateUserHandler(userService)
	deleteUserHandler := handlers.NewDeleteUserHandler(userService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(jwtSvc, cachedUserReader)

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public routes
		r.Post("/signup", signupHandler)
		r.Post("/login", loginHandler)
		r.Post("/forgotPassword", forgotPasswordHandler)
		r.Get("/resetPassword/{token}", validateResetTokenHandler)
		r.Patch("/resetPassword/{token}", resetPasswordHandler)
		r.Get("/", listArchitectsHandler)
		r.Get("/{id}", getUserHandler)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Patch("/changePassword/{id}", changePasswordHandler)
			r.Patch("/{id}", updateUserHandler)
			r.With(middlewares.TxMiddleware(db)).Delete("/{id}", deleteUserHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
