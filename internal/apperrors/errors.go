package apperrors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	ErrMalformedInput         = errors.New("malformed input")
	ErrEngineReasoningFailure = errors.New("spatial reasoning failed")
	ErrJobNotFound            = errors.New("job not found")
	ErrGenerationFailure      = errors.New("generation failed")
	ErrInvalidTransition      = errors.New("invalid job status transition")
	ErrJobStoreFull           = errors.New("job store is full")
	ErrServiceUnavailable     = errors.New("service unavailable")
	ErrDetectorUnavailable    = errors.New("object detector not configured")
)
