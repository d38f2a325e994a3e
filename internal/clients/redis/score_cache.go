package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/utils"
)

// ScoreCache fronts repeated reads of a completed assessment's score
// snapshot. A cache miss or unavailable redis is never an error for the
// caller; scoring just recomputes.
type ScoreCache interface {
	Get(ctx context.Context, assessmentID uuid.UUID) (*scoring.ScoreResult, bool)
	Set(ctx context.Context, assessmentID uuid.UUID, result *scoring.ScoreResult)
	Invalidate(ctx context.Context, assessmentID uuid.UUID)
	Close() error
}

type scoreCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewScoreCache(log *logger.Logger) (ScoreCache, error) {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("SCORE_CACHE_TTL_SECONDS", 600, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &scoreCache{
		log: log.With("service", "ScoreCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func scoreKey(assessmentID uuid.UUID) string {
	return "score:" + assessmentID.String()
}

func (c *scoreCache) Get(ctx context.Context, assessmentID uuid.UUID) (*scoring.ScoreResult, bool) {
	raw, err := c.rdb.Get(ctx, scoreKey(assessmentID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("score cache read failed", "assessment_id", assessmentID, "error", err)
		}
		return nil, false
	}
	var result scoring.ScoreResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("score cache entry corrupt, dropping", "assessment_id", assessmentID, "error", err)
		c.Invalidate(ctx, assessmentID)
		return nil, false
	}
	return &result, true
}

func (c *scoreCache) Set(ctx context.Context, assessmentID uuid.UUID, result *scoring.ScoreResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("score cache marshal failed", "assessment_id", assessmentID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, scoreKey(assessmentID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("score cache write failed", "assessment_id", assessmentID, "error", err)
	}
}

func (c *scoreCache) Invalidate(ctx context.Context, assessmentID uuid.UUID) {
	if err := c.rdb.Del(ctx, scoreKey(assessmentID)).Err(); err != nil {
		c.log.Warn("score cache invalidate failed", "assessment_id", assessmentID, "error", err)
	}
}

func (c *scoreCache) Close() error { return c.rdb.Close() }
