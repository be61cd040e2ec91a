package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/makeasinger/lyricarchitect/internal/auth"
	"github.com/makeasinger/lyricarchitect/internal/client"
	"github.com/makeasinger/lyricarchitect/internal/config"
	"github.com/makeasinger/lyricarchitect/internal/handler"
	"github.com/makeasinger/lyricarchitect/internal/middleware"
	"github.com/makeasinger/lyricarchitect/internal/service"
	ws "github.com/makeasinger/lyricarchitect/internal/websocket"
)

const testJWTSecret = "test-secret-for-e2e"

// fakeGenerator stands in for a model provider. Each call pops the next reply;
// the last reply repeats.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []fakeReply
	prompts []string
	delay   time.Duration
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, req client.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt())
	reply := fakeReply{}
	if len(f.replies) > 0 {
		reply = f.replies[0]
		if len(f.replies) > 1 {
			f.replies = f.replies[1:]
		}
	}
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply.text, reply.err
}

func (f *fakeGenerator) Name() string       { return "fake" }
func (f *fakeGenerator) Model() string      { return "fake-model" }
func (f *fakeGenerator) IsConfigured() bool { return true }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// testApp holds all components needed for testing
type testApp struct {
	app       *fiber.App
	generator *fakeGenerator
}

// setupApp creates a Fiber app wired like main.go, with a fake provider and an
// in-memory Redis.
func setupApp(t *testing.T, gen *fakeGenerator) *testApp {
	t.Helper()
	if gen == nil {
		gen = &fakeGenerator{replies: []fakeReply{{text: `{"lyrics":"[Verse 1]\nHello","styleDescription":"Warm acoustic pop"}`}}}
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	validate := validator.New()

	songService := service.NewSongService(gen, &config.GenerationConfig{Timeout: 5}, nil)
	authenticator := auth.NewAuthenticator(nil, testJWTSecret)
	hub := ws.NewHub(songService, nil)

	songHandler := handler.NewSongHandler(songService, validate)
	healthHandler := handler.NewHealthHandler(gen, authenticator.Enabled())
	authHandler := handler.NewAuthHandler(authenticator)

	authMiddleware := middleware.NewAuthMiddleware(authenticator).Authenticate()
	rateLimiter := middleware.NewRateLimiter(redisClient, nil)

	app := fiber.New()

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)
	app.Get("/auth/verify", authHandler.Verify)

	api := app.Group("/api", authMiddleware)
	// Use very high rate limits so tests don't get blocked
	api.Post("/songs/generate", rateLimiter.GenerateLimit(10000), songHandler.Generate)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, authMiddleware)
	app.Get("/ws/songs", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(middleware.LocalUserID).(string)
		hub.HandleConnection(c, func(ctx context.Context) bool {
			return rateLimiter.AllowGenerate(ctx, userID, 10000)
		})
	}))

	return &testApp{app: app, generator: gen}
}

// generateToken creates a legacy HMAC JWT token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	signed, err := auth.IssueLegacyToken("test-user-123", "test@example.com", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// errorObject returns the "error" envelope of a failed response.
func errorObject(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %v", body)
	}
	return errObj
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// loadEnvFile loads ../.env into the process environment, skipping the test
// when the file does not exist.
func loadEnvFile(t *testing.T) {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	envPath := filepath.Join(filepath.Dir(filename), "..", ".env")

	f, err := os.Open(envPath)
	if err != nil {
		t.Skipf("skipping: .env file not found at %s", envPath)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			t.Setenv(parts[0], parts[1])
		}
	}
}
