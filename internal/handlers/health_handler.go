package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"room-service/internal/services"
)

const (
	ServiceName    = "Room Improvement AI Service"
	ServiceVersion = "1.0.0"
)

// Pinger checks one backing dependency.
type Pinger func(ctx context.Context) error

// HealthHandler reports which pipeline components are wired and whether
// backing stores answer.
type HealthHandler struct {
	Analysis     *services.AnalysisService
	Orchestrator *services.JobOrchestrator
	Pingers      map[string]Pinger
}

// Root handles GET /.
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": ServiceName,
		"status":  "running",
		"version": ServiceVersion,
	})
}

// Health handles GET /health.
// @Summary Component health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{} "A backing store is unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	components := fiber.Map{
		"spatial_analyzer":     true,
		"rule_engine":          true,
		"object_detector":      h.Analysis != nil && h.Analysis.HasDetector(),
		"conceptual_generator": h.Orchestrator != nil,
		"persistence":          h.Analysis != nil && h.Analysis.HasRepository(),
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	status, code := "healthy", fiber.StatusOK
	for name, ping := range h.Pingers {
		ok := ping(ctx) == nil
		components[name] = ok
		if !ok {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
	}

	resp := fiber.Map{"status": status, "components": components}
	if h.Orchestrator != nil {
		resp["visualizer"] = h.Orchestrator.Visualizer()
		resp["jobs"] = h.Orchestrator.Stats(ctx)
	}
	return c.Status(code).JSON(resp)
}
