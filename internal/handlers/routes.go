package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the room service endpoints on router.
func RegisterRoutes(router fiber.Router, analysis *AnalysisHandler, generation *GenerationHandler, health *HealthHandler) {
	router.Get("/", health.Root)
	router.Get("/health", health.Health)

	router.Post("/analyze-room", analysis.AnalyzeRoom)
	router.Post("/analyze-room/batch", analysis.AnalyzeBatch)
	router.Get("/analyses", analysis.ListAnalyses)
	router.Get("/analyses/:id", analysis.GetAnalysis)

	router.Post("/generate-concept", generation.GenerateConcept)
	router.Get("/image-status/:job_id", generation.ImageStatus)
}
