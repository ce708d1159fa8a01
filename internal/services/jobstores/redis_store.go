package jobstores

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/models"
	"room-service/internal/services/jobstore"
	"room-service/internal/storage"
)

const (
	jobKeyPrefix     = "job:"
	maxUpdateRetries = 10
)

// RedisStore keeps one key per job so that several service instances can share
// job state. Updates use WATCH transactions; jobs never contend with each
// other. Finished jobs get a key TTL, so Redis expires them on its own.
type RedisStore struct {
	client *storage.RedisClient
	ttl    time.Duration
	logger *zap.Logger

	evicted atomic.Int64
}

func NewRedisStore(client *storage.RedisClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.Named("redis-jobs"),
	}
}

func (rs *RedisStore) Name() string {
	return "REDIS"
}

func jobKey(id string) string {
	return fmt.Sprintf("%s%s", jobKeyPrefix, id)
}

func (rs *RedisStore) Create(ctx context.Context, job *models.GenerationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "encode job")
	}

	ok, err := rs.client.SetNX(ctx, jobKey(job.JobID), data, 0)
	if err != nil {
		return errors.Wrap(apperrors.ErrServiceUnavailable, err.Error())
	}
	if !ok {
		return errors.Errorf("job %s already exists", job.JobID)
	}
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, id string) (*models.GenerationJob, error) {
	data, err := rs.client.GetBytes(ctx, jobKey(id))
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrServiceUnavailable, err.Error())
	}
	if data == nil {
		return nil, apperrors.ErrJobNotFound
	}
	return decodeJob(data)
}

func (rs *RedisStore) Update(ctx context.Context, id string, fn func(*models.GenerationJob) error) (*models.GenerationJob, error) {
	key := jobKey(id)
	var committed *models.GenerationJob

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return apperrors.ErrJobNotFound
		}
		if err != nil {
			return err
		}

		job, err := decodeJob(data)
		if err != nil {
			return err
		}
		if err := fn(job); err != nil {
			return err
		}
		encoded, err := json.Marshal(job)
		if err != nil {
			return errors.Wrap(err, "encode job")
		}

		var expiration time.Duration
		if job.Status.IsTerminal() {
			expiration = rs.ttl
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, expiration)
			return nil
		})
		if err == nil {
			committed = job
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := rs.client.Watch(ctx, txf, key)
		if err == nil {
			return committed.Clone(), nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, errors.Errorf("job %s: too many concurrent updates", id)
}

// Evict deletes finished jobs older than the cutoff. Key TTLs normally get
// there first; this covers jobs written before a TTL change.
func (rs *RedisStore) Evict(ctx context.Context, olderThan time.Time) (int, error) {
	keys, err := rs.client.ScanKeys(ctx, jobKeyPrefix+"*")
	if err != nil {
		return 0, err
	}

	n := 0
	for _, key := range keys {
		data, err := rs.client.GetBytes(ctx, key)
		if err != nil || data == nil {
			continue
		}
		job, err := decodeJob(data)
		if err != nil || !expired(job, olderThan) {
			continue
		}
		if err := rs.client.Delete(ctx, key); err != nil {
			return n, err
		}
		n++
	}

	if n > 0 {
		rs.evicted.Add(int64(n))
		rs.logger.Info("Evicted finished jobs", zap.Int("count", n))
	}
	return n, nil
}

func (rs *RedisStore) Stats(ctx context.Context) jobstore.Stats {
	stats := jobstore.Stats{Name: "Redis", Evicted: rs.evicted.Load()}

	keys, err := rs.client.ScanKeys(ctx, jobKeyPrefix+"*")
	if err != nil {
		rs.logger.Warn("Failed to scan jobs", zap.Error(err))
		return stats
	}
	for _, key := range keys {
		data, err := rs.client.GetBytes(ctx, key)
		if err != nil || data == nil {
			continue
		}
		job, err := decodeJob(data)
		if err != nil {
			continue
		}
		stats.Count(job.Status)
	}
	return stats
}

func decodeJob(data []byte) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, errors.Wrap(err, "decode job")
	}
	if strings.TrimSpace(job.JobID) == "" {
		return nil, errors.New("decode job: missing job_id")
	}
	return &job, nil
}
