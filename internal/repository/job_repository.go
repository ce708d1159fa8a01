package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

// JobArchive keeps finished generation jobs after they leave the live store.
type JobArchive interface {
	Save(ctx context.Context, job *models.GenerationJob) error
	Get(ctx context.Context, id string) (*models.GenerationJob, error)
}

// JobRepository is the Postgres JobArchive.
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Save upserts the job record.
func (r *JobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(models.NewJobRecord(job)).Error
}

func (r *JobRepository) Get(ctx context.Context, id string) (*models.GenerationJob, error) {
	var record models.JobRecord
	err := r.db.WithContext(ctx).First(&record, "job_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.ToJob(), nil
}
