package models

import (
	"time"

	"github.com/pkg/errors"

	"room-service/internal/apperrors"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// next reports whether to is a legal successor of s.
func (s JobStatus) next(to JobStatus) bool {
	switch s {
	case JobPending:
		return to == JobProcessing
	case JobProcessing:
		return to.IsTerminal()
	}
	return false
}

// GenerationJob tracks one asynchronous visualization request.
type GenerationJob struct {
	JobID              string         `json:"job_id"`
	Status             JobStatus      `json:"status"`
	RoomType           string         `json:"room_type"`
	CreatedAt          time.Time      `json:"created_at"`
	StartedAt          *time.Time     `json:"started_at,omitempty"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	ImageURL           string         `json:"image_url,omitempty"`
	ImagePath          string         `json:"image_path,omitempty"`
	DesignDescription  string         `json:"design_description,omitempty"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty"`
	ErrorMessage       string         `json:"error_message,omitempty"`
}

// NewGenerationJob returns a pending job.
func NewGenerationJob(id, roomType string, now time.Time) *GenerationJob {
	return &GenerationJob{
		JobID:     id,
		Status:    JobPending,
		RoomType:  roomType,
		CreatedAt: now,
	}
}

// Advance moves the job along pending -> processing -> completed|failed.
// Terminal states are final, so CompletedAt is set exactly once.
func (j *GenerationJob) Advance(to JobStatus, now time.Time) error {
	if !j.Status.next(to) {
		return errors.Wrapf(apperrors.ErrInvalidTransition, "%s -> %s", j.Status, to)
	}
	j.Status = to
	switch {
	case to == JobProcessing:
		j.StartedAt = &now
	case to.IsTerminal():
		j.CompletedAt = &now
	}
	return nil
}

// Clone returns a deep copy safe to hand to readers.
func (j *GenerationJob) Clone() *GenerationJob {
	if j == nil {
		return nil
	}
	out := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		out.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	if j.GenerationMetadata != nil {
		out.GenerationMetadata = make(map[string]any, len(j.GenerationMetadata))
		for k, v := range j.GenerationMetadata {
			out.GenerationMetadata[k] = v
		}
	}
	return &out
}

// ConceptRequest is a validated visualization payload.
type ConceptRequest struct {
	ImprovementSuggestions ImprovementSummary `json:"improvement_suggestions"`
	DetectedObjects        map[string]any     `json:"detected_objects"`
	VisualFeatures         map[string]any     `json:"visual_features"`
	SpatialGuidance        map[string]any     `json:"spatial_guidance"`
	RoomType               string             `json:"room_type"`
}

// ConceptResult is what a visualizer hands back on success.
type ConceptResult struct {
	ImageURL          string         `json:"image_url"`
	ImagePath         string         `json:"image_path"`
	DesignDescription string         `json:"design_description"`
	Metadata          map[string]any `json:"generation_metadata"`
}
