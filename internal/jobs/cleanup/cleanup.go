package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DanglingLikeStore prunes likes pointing at photos or prompts that no
// longer exist.
type DanglingLikeStore interface {
	DeleteDanglingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Job struct {
	likes  DanglingLikeStore
	grace  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// New builds a cleanup job. The grace period keeps fresh likes around
// even when their item was just deleted, so an open incoming-likes
// screen does not lose rows mid-session.
func New(likes DanglingLikeStore, grace time.Duration, logger *zap.Logger) *Job {
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		likes:  likes,
		grace:  grace,
		now:    time.Now,
		logger: logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.likes == nil {
		return nil
	}

	cutoff := j.now().Add(-j.grace)
	rows, err := j.likes.DeleteDanglingOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune dangling likes: %w", err)
	}
	if rows > 0 {
		j.logger.Info("dangling likes pruned", zap.Int64("deleted", rows))
	}

	return nil
}
