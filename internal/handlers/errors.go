package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"room-service/internal/apperrors"
)

const (
	InvalidUuidError   = "invalid UUID"
	JobNotFoundError   = "Job not found"
	AnalysisNotFound   = "analysis not found"
	GeneratorNotReady  = "Conceptual generator not initialized"
	DetectorNotReady   = "Object detector not configured; send detections as JSON"
	DatabaseNotEnabled = "analysis storage is not configured"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch {
	case errors.Is(err, apperrors.ErrMalformedInput),
		errors.Is(err, apperrors.ErrInvalidImageDimensions):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrJobNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrJobStoreFull),
		errors.Is(err, apperrors.ErrServiceUnavailable),
		errors.Is(err, apperrors.ErrDetectorUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": true, "message": message,
	})
}
