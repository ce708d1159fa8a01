package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

// AnalysisRepository stores completed room analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.RoomAnalysis) error
	Get(ctx context.Context, id uuid.UUID) (*models.RoomAnalysis, error)
	List(ctx context.Context, roomType string, limit int) ([]models.RoomAnalysis, error)
}

// AnalysisRepositoryImpl provides methods to interact with the RoomAnalysis model in the database.
type AnalysisRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepositoryImpl {
	return &AnalysisRepositoryImpl{db: db}
}

func (r *AnalysisRepositoryImpl) Create(ctx context.Context, analysis *models.RoomAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

// Get retrieves a RoomAnalysis by its ID.
func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.RoomAnalysis, error) {
	var analysis models.RoomAnalysis
	err := r.db.WithContext(ctx).First(&analysis, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// List returns the most recent analyses, optionally filtered by room type.
func (r *AnalysisRepositoryImpl) List(ctx context.Context, roomType string, limit int) ([]models.RoomAnalysis, error) {
	var analyses []models.RoomAnalysis
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&analyses).Error
	return analyses, err
}
