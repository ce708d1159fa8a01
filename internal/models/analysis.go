package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomAnalysis is the persisted outcome of one analyze-room request.
type RoomAnalysis struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	RoomType         string              `gorm:"index" json:"room_type"`
	ImprovementNotes string              `json:"improvement_notes"`
	ObjectCount      int                 `json:"object_count"`
	Detection        *DetectionResult    `gorm:"type:jsonb;serializer:json" json:"detected_objects"`
	Spatial          *SpatialAnalysis    `gorm:"type:jsonb;serializer:json" json:"spatial_analysis"`
	Guidance         *GuidanceResult     `gorm:"type:jsonb;serializer:json" json:"spatial_guidance"`
	Summary          *ImprovementSummary `gorm:"type:jsonb;serializer:json" json:"improvement_suggestions"`
	JobID            *string             `json:"concept_job_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// JobRecord archives a terminal generation job so status polls survive
// eviction from the live job store.
type JobRecord struct {
	JobID              string         `gorm:"primaryKey" json:"job_id"`
	Status             JobStatus      `gorm:"index" json:"status"`
	RoomType           string         `json:"room_type"`
	CreatedAt          time.Time      `json:"created_at"`
	StartedAt          *time.Time     `json:"started_at"`
	CompletedAt        *time.Time     `json:"completed_at"`
	ImageURL           string         `json:"image_url"`
	ImagePath          string         `json:"image_path"`
	DesignDescription  string         `json:"design_description"`
	GenerationMetadata map[string]any `gorm:"type:jsonb;serializer:json" json:"generation_metadata"`
	ErrorMessage       string         `json:"error_message"`
}

func NewJobRecord(job *GenerationJob) *JobRecord {
	return &JobRecord{
		JobID:              job.JobID,
		Status:             job.Status,
		RoomType:           job.RoomType,
		CreatedAt:          job.CreatedAt,
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		ImageURL:           job.ImageURL,
		ImagePath:          job.ImagePath,
		DesignDescription:  job.DesignDescription,
		GenerationMetadata: job.GenerationMetadata,
		ErrorMessage:       job.ErrorMessage,
	}
}

func (r *JobRecord) ToJob() *GenerationJob {
	return &GenerationJob{
		JobID:              r.JobID,
		Status:             r.Status,
		RoomType:           r.RoomType,
		CreatedAt:          r.CreatedAt,
		StartedAt:          r.StartedAt,
		CompletedAt:        r.CompletedAt,
		ImageURL:           r.ImageURL,
		ImagePath:          r.ImagePath,
		DesignDescription:  r.DesignDescription,
		GenerationMetadata: r.GenerationMetadata,
		ErrorMessage:       r.ErrorMessage,
	}
}
