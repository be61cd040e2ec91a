package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/makeasinger/lyricarchitect/internal/auth"
	"github.com/makeasinger/lyricarchitect/internal/client"
	"github.com/makeasinger/lyricarchitect/internal/config"
	"github.com/makeasinger/lyricarchitect/internal/handler"
	"github.com/makeasinger/lyricarchitect/internal/logger"
	"github.com/makeasinger/lyricarchitect/internal/middleware"
	"github.com/makeasinger/lyricarchitect/internal/service"
	ws "github.com/makeasinger/lyricarchitect/internal/websocket"
	"github.com/makeasinger/lyricarchitect/pkg/response"
)

// @title          Lyric Architect API
// @version        1.0
// @description    Turns a free-text song idea into lyrics and a style description.
// @host           localhost:8000
// @BasePath       /
// @schemes        http https
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
// @description    Enter your bearer token in the format **Bearer &lt;token&gt;**
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer log.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Env,
		}); err != nil {
			log.Warn("Sentry not initialized", "error", err.Error())
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not available, rate limiting disabled until it is", "addr", cfg.Redis.Addr, "error", err.Error())
	}

	// A missing credential for the selected provider is fatal
	generator, err := client.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create generation client", "provider", cfg.Generation.Provider, "error", err.Error())
	}
	log.Info("Generation client ready", "provider", generator.Name(), "model", generator.Model())

	validate := validator.New()

	songService := service.NewSongService(generator, &cfg.Generation, log)

	// Zitadel JWKS verifier is optional; legacy HMAC tokens still work without it
	var tokenVerifier auth.TokenVerifier
	if cfg.Zitadel.Issuer != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(&cfg.Zitadel)
		if err != nil {
			log.Warn("JWKS verifier not initialized", "issuer", cfg.Zitadel.Issuer, "error", err.Error())
		} else {
			tokenVerifier = jwksVerifier
			defer jwksVerifier.Close()
		}
	}
	authenticator := auth.NewAuthenticator(tokenVerifier, cfg.JWT.Secret)

	hub := ws.NewHub(songService, log)

	songHandler := handler.NewSongHandler(songService, validate)
	healthHandler := handler.NewHealthHandler(generator, authenticator.Enabled())
	authHandler := handler.NewAuthHandler(authenticator)

	var apiAuthMiddleware fiber.Handler
	if cfg.Gateway.Enabled {
		log.Info("Gateway mode enabled, using header-based auth")
		apiAuthMiddleware = middleware.GatewayAuthMiddleware()
	} else {
		apiAuthMiddleware = middleware.NewAuthMiddleware(authenticator).Authenticate()
	}
	rateLimiter := middleware.NewRateLimiter(redisClient, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		// Bodies carry only song ideas; headers are omitted so tokens stay out of logs
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)

	// ForwardAuth verification endpoint (internal, called by Traefik)
	app.Get("/auth/verify", authHandler.Verify)

	api := app.Group("/api", apiAuthMiddleware)
	songs := api.Group("/songs")
	songs.Post("/generate", rateLimiter.GenerateLimit(cfg.RateLimit.GeneratePerMin), songHandler.Generate)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, apiAuthMiddleware)

	perMin := cfg.RateLimit.GeneratePerMin
	app.Get("/ws/songs", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(middleware.LocalUserID).(string)
		hub.HandleConnection(c, func(ctx context.Context) bool {
			return rateLimiter.AllowGenerate(ctx, userID, perMin)
		})
	}))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server", "open_sessions", hub.Count())
		hub.CloseAll()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Server shutdown error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Info("Server starting", "addr", addr, "env", cfg.Server.Env)
	if err := app.Listen(addr); err != nil {
		log.Fatal("Server error", "error", err.Error())
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, response.CodeServiceError, message, nil)
}
