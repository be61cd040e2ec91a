package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/makeasinger/lyricarchitect/internal/client"
)

// HealthHandler reports liveness and which generation provider is wired in
type HealthHandler struct {
	generator   client.Generator
	authEnabled bool
	now         func() time.Time
}

func NewHealthHandler(generator client.Generator, authEnabled bool) *HealthHandler {
	return &HealthHandler{
		generator:   generator,
		authEnabled: authEnabled,
		now:         time.Now,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"timestamp": h.now().Unix(),
	})
}

// Health handles GET /health
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	generation := fiber.Map{"configured": false}
	if h.generator != nil {
		generation = fiber.Map{
			"provider":   h.generator.Name(),
			"model":      h.generator.Model(),
			"configured": h.generator.IsConfigured(),
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"generation": generation,
			"auth":       h.authEnabled,
		},
	})
}
