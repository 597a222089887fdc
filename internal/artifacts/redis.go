package artifacts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"collateral-pipeline/internal/models"
)

// RedisSink stores a run as one hash keyed by prefix+runID, one field per
// artifact. A hash whose TTL cannot be set is removed.
type RedisSink struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisSink(client redis.Cmdable, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSink) Name() string { return SinkRedis }

func (s *RedisSink) Key(runID string) string { return s.prefix + runID }

func (s *RedisSink) Write(ctx context.Context, run models.RunArtifacts) error {
	docs, err := Encode(run)
	if err != nil {
		return err
	}

	fields := make([]interface{}, 0, len(docs)*2)
	for _, doc := range docs {
		fields = append(fields, doc.Name, string(doc.Body))
	}

	key := s.Key(run.RunID)
	if err := s.client.HSet(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			s.client.Del(context.WithoutCancel(ctx), key)
			return fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return nil
}
