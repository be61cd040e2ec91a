package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/makeasinger/lyricarchitect/internal/client"
	"github.com/makeasinger/lyricarchitect/internal/config"
	"github.com/makeasinger/lyricarchitect/internal/logger"
	"github.com/makeasinger/lyricarchitect/internal/model"
	"github.com/makeasinger/lyricarchitect/internal/prompt"
)

// SongGenerator is the entry point used by the HTTP and WebSocket surfaces
type SongGenerator interface {
	GenerateSongContent(ctx context.Context, description string) (*model.GenerationResult, error)
	Generate(ctx context.Context, attemptID, description string) (*model.GenerationResult, error)
}

// SongService turns a song idea into lyrics and a style description
type SongService struct {
	generator  client.Generator
	builder    *prompt.Builder
	timeout    time.Duration
	maxRetries int
	log        *logger.Logger
}

// NewSongService creates a song service around an already constructed generator
func NewSongService(generator client.Generator, cfg *config.GenerationConfig, log *logger.Logger) *SongService {
	if log == nil {
		log = logger.Nop()
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries > 1 {
		maxRetries = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &SongService{
		generator:  generator,
		builder:    prompt.NewBuilder(),
		timeout:    timeout,
		maxRetries: maxRetries,
		log:        log,
	}
}

// GenerateSongContent runs one generation attempt with a fresh attempt ID
func (s *SongService) GenerateSongContent(ctx context.Context, description string) (*model.GenerationResult, error) {
	return s.Generate(ctx, uuid.NewString(), description)
}

// Generate runs one generation attempt. Every failure is a *GenerationError.
func (s *SongService) Generate(ctx context.Context, attemptID, description string) (*model.GenerationResult, error) {
	log := s.log.With(
		"attempt_id", attemptID,
		"provider", s.generator.Name(),
		"model", s.generator.Model(),
	)

	if strings.TrimSpace(description) == "" {
		err := newGenerationError(KindEmptyInput, errors.New("song description is blank"))
		log.Warn("Generation rejected", "kind", string(KindEmptyInput))
		return nil, err
	}

	start := time.Now()
	req := client.NewGenerationRequest(s.generator.Model(), s.builder.Build(description))
	log.Debug("Generation started", "prompt_chars", len(req.Prompt()))

	raw, err := s.call(ctx, req, log)
	if err != nil {
		genErr := newGenerationError(KindTransportFailure, err)
		log.Error("Generation failed", genErr, "kind", string(KindTransportFailure), "duration_ms", time.Since(start).Milliseconds())
		return nil, genErr
	}

	result, err := ParseResponse(raw)
	if err != nil {
		log.Error("Generation failed", err, "kind", string(KindOf(err)), "raw_chars", len(raw), "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	log.Info("Generation succeeded",
		"duration_ms", time.Since(start).Milliseconds(),
		"lyrics_chars", len(result.Lyrics),
		"style_chars", len(result.StyleDescription),
	)
	return result, nil
}

// call performs the provider request under the attempt timeout, retrying at
// most maxRetries times on transient failures.
func (s *SongService) call(ctx context.Context, req client.GenerationRequest, log *logger.Logger) (string, error) {
	for try := 0; ; try++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		raw, err := s.generator.Generate(callCtx, req)
		cancel()

		if err == nil {
			return raw, nil
		}
		if try >= s.maxRetries || ctx.Err() != nil || !client.IsTransient(err) {
			return "", err
		}
		log.Warn("Transient generation failure, retrying", "error", err.Error(), "try", try+1)
	}
}
