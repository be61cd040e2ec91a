package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/lyricarchitect/internal/model"
	"github.com/makeasinger/lyricarchitect/internal/service"
	"github.com/makeasinger/lyricarchitect/pkg/response"
)

type fakeSongService struct {
	result *model.GenerationResult
	err    error
	calls  int
	last   string
}

func (f *fakeSongService) GenerateSongContent(ctx context.Context, description string) (*model.GenerationResult, error) {
	f.calls++
	f.last = description
	return f.result, f.err
}

func (f *fakeSongService) Generate(ctx context.Context, attemptID, description string) (*model.GenerationResult, error) {
	return f.GenerateSongContent(ctx, description)
}

func newSongApp(svc service.SongGenerator) *fiber.App {
	app := fiber.New()
	app.Post("/api/songs/generate", NewSongHandler(svc, validator.New()).Generate)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/songs/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func errorOf(t *testing.T, body map[string]interface{}) (string, string) {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %v", body)
	return e["code"].(string), e["message"].(string)
}

func TestSongGenerate_Success(t *testing.T) {
	svc := &fakeSongService{result: &model.GenerationResult{Lyrics: "[Chorus]\nWe won", StyleDescription: "80s synth-pop"}}
	status, body := post(t, newSongApp(svc), `{"description":"an upbeat 80s synth-pop song about winning a championship"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[Chorus]\nWe won", body["lyrics"])
	assert.Equal(t, "80s synth-pop", body["styleDescription"])
	assert.Equal(t, "an upbeat 80s synth-pop song about winning a championship", svc.last)
}

func TestSongGenerate_BlankDescription(t *testing.T) {
	for _, in := range []string{`{"description":""}`, `{"description":"   "}`, `{}`} {
		svc := &fakeSongService{}
		status, body := post(t, newSongApp(svc), in)

		assert.Equal(t, http.StatusBadRequest, status, in)
		code, msg := errorOf(t, body)
		assert.Equal(t, response.CodeValidationError, code)
		assert.Equal(t, service.EmptyInputMessage, msg)
		assert.Equal(t, 0, svc.calls, in)
	}
}

func TestSongGenerate_InvalidBody(t *testing.T) {
	svc := &fakeSongService{}
	status, body := post(t, newSongApp(svc), `{"description":`)

	assert.Equal(t, http.StatusBadRequest, status)
	code, _ := errorOf(t, body)
	assert.Equal(t, response.CodeValidationError, code)
	assert.Equal(t, 0, svc.calls)
}

func TestSongGenerate_TooLong(t *testing.T) {
	svc := &fakeSongService{}
	status, body := post(t, newSongApp(svc), `{"description":"`+strings.Repeat("a", 2001)+`"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	code, _ := errorOf(t, body)
	assert.Equal(t, response.CodeValidationError, code)
	assert.Equal(t, 0, svc.calls)
}

func TestSongGenerate_FailuresLookIdentical(t *testing.T) {
	kinds := []service.ErrorKind{
		service.KindTransportFailure,
		service.KindMalformedResponse,
		service.KindMissingField,
	}

	var bodies []map[string]interface{}
	for _, kind := range kinds {
		svc := &fakeSongService{err: &service.GenerationError{Kind: kind, Err: errors.New("provider detail " + string(kind))}}
		status, body := post(t, newSongApp(svc), `{"description":"a ballad"}`)

		assert.Equal(t, http.StatusBadGateway, status)
		code, msg := errorOf(t, body)
		assert.Equal(t, response.CodeGenerationFailed, code)
		assert.Equal(t, service.FailureMessage, msg)
		bodies = append(bodies, body)
	}

	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(nil, true)
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, true, services["auth"])
	assert.Equal(t, false, services["generation"].(map[string]interface{})["configured"])
}
