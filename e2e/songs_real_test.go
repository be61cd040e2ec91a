package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/makeasinger/lyricarchitect/internal/auth"
	"github.com/makeasinger/lyricarchitect/internal/client"
	"github.com/makeasinger/lyricarchitect/internal/config"
	"github.com/makeasinger/lyricarchitect/internal/handler"
	"github.com/makeasinger/lyricarchitect/internal/middleware"
	"github.com/makeasinger/lyricarchitect/internal/service"
)

// setupRealApp creates an app backed by the provider selected in .env.
func setupRealApp(t *testing.T) *fiber.App {
	t.Helper()
	loadEnvFile(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	generator, err := client.NewGenerator(context.Background(), cfg)
	if err != nil {
		t.Skipf("skipping: provider %q not configured: %v", cfg.Generation.Provider, err)
	}
	t.Logf("Provider: %s model=%s", generator.Name(), generator.Model())

	songService := service.NewSongService(generator, &cfg.Generation, nil)
	songHandler := handler.NewSongHandler(songService, validator.New())
	authMiddleware := middleware.NewAuthMiddleware(auth.NewAuthenticator(nil, testJWTSecret))

	app := fiber.New()
	api := app.Group("/api", authMiddleware.Authenticate())
	api.Post("/songs/generate", songHandler.Generate)

	return app
}

// TestSongGenerate_RealProvider runs one generation against the real model.
func TestSongGenerate_RealProvider(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping real provider test in short mode")
	}

	app := setupRealApp(t)

	t.Log("Sending song generate request to real provider...")
	resp, err := doAuthRequest(t, app, http.MethodPost, "/api/songs/generate",
		`{"description":"an upbeat 80s synth-pop song about winning a championship"}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	lyrics, _ := result["lyrics"].(string)
	style, _ := result["styleDescription"].(string)
	if lyrics == "" || style == "" {
		t.Fatalf("expected non-empty lyrics and styleDescription, got: %v", result)
	}

	t.Logf("Style (%d chars): %s", len(style), style)
	t.Logf("Lyrics (%d chars):\n%s", len(lyrics), lyrics)
}
