package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/makeasinger/lyricarchitect/internal/model"
	"github.com/makeasinger/lyricarchitect/internal/service"
	"github.com/makeasinger/lyricarchitect/pkg/response"
)

type SongHandler struct {
	service   service.SongGenerator
	validator *validator.Validate
}

func NewSongHandler(svc service.SongGenerator, v *validator.Validate) *SongHandler {
	return &SongHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/songs/generate
// @Summary      Generate song content
// @Description  Generate lyrics and a style description from a free-text song idea
// @Tags         Songs
// @Accept       json
// @Produce      json
// @Param        request body model.SongGenerateRequest true "Generate request"
// @Success      200 {object} model.GenerationResult
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      502 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/songs/generate [post]
func (h *SongHandler) Generate(c *fiber.Ctx) error {
	var req model.SongGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	// Whitespace passes "required", so blank input is checked first
	if strings.TrimSpace(req.Description) == "" {
		return response.ValidationError(c, service.EmptyInputMessage, nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.GenerateSongContent(c.UserContext(), req.Description)
	if err != nil {
		if service.KindOf(err) == service.KindEmptyInput {
			return response.ValidationError(c, service.UserMessage(err), nil)
		}
		return response.GenerationFailed(c, service.UserMessage(err))
	}

	return response.OK(c, result)
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
