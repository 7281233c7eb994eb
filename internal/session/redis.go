package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"reportfilter/internal/constants"
	"reportfilter/internal/report"
	"reportfilter/pkg/metrics"
)

// Hash layout of session:<id>. Filter values live under valuePrefix so a
// filter name can never collide with the bookkeeping fields.
const (
	fieldReport    = "_report"
	fieldCreatedAt = "_created_at"
	fieldUpdatedAt = "_updated_at"
	valuePrefix    = "v:"
)

// maxTxRetries bounds how often SetValue re-runs its optimistic transaction
// after a concurrent write to the same session.
const maxTxRetries = 20

// RedisStore keeps one hash per session. Redis expires idle sessions;
// every write pushes the expiry out by the TTL. The sessions_active gauge
// follows opens and closes made through this instance; expiry inside Redis
// is not observed.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTLSeconds * time.Second
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Name() string {
	return constants.StoreTypeRedis
}

func key(id string) string {
	return constants.CacheKeyPrefixSession + id
}

func (s *RedisStore) Open(ctx context.Context, reportName string) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Report:    reportName,
		Values:    report.Values{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	k := key(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			fieldReport, reportName,
			fieldCreatedAt, now.Format(time.RFC3339Nano),
			fieldUpdatedAt, now.Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		metrics.IncSessionOperation(s.Name(), "open", "error")
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	metrics.IncSessionOperation(s.Name(), "open", "success")
	metrics.IncSessionsActive()
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		metrics.IncSessionOperation(s.Name(), "get", "error")
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		metrics.IncSessionOperation(s.Name(), "get", "not_found")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	metrics.IncSessionOperation(s.Name(), "get", "success")
	return decode(id, fields), nil
}

func (s *RedisStore) SetValue(ctx context.Context, id, filter, value string) (*Session, error) {
	k := key(id)
	now := s.now().UTC()

	// WATCH keeps an expiring session from being recreated as a bare hash.
	update := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if value == "" {
				pipe.HDel(ctx, k, valuePrefix+filter)
			} else {
				pipe.HSet(ctx, k, valuePrefix+filter, value)
			}
			pipe.HSet(ctx, k, fieldUpdatedAt, now.Format(time.RFC3339Nano))
			pipe.Expire(ctx, k, s.ttl)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = s.client.Watch(ctx, update, k)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.IncSessionOperation(s.Name(), "set_value", "not_found")
		return nil, err
	case err != nil:
		metrics.IncSessionOperation(s.Name(), "set_value", "error")
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	metrics.IncSessionOperation(s.Name(), "set_value", "success")
	return s.Get(ctx, id)
}

func (s *RedisStore) Close(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		metrics.IncSessionOperation(s.Name(), "close", "error")
		return fmt.Errorf("failed to close session: %w", err)
	}
	if n == 0 {
		metrics.IncSessionOperation(s.Name(), "close", "not_found")
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	metrics.IncSessionOperation(s.Name(), "close", "success")
	metrics.DecSessionsActive()
	return nil
}

func decode(id string, fields map[string]string) *Session {
	sess := &Session{
		ID:     id,
		Report: fields[fieldReport],
		Values: report.Values{},
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])

	for f, v := range fields {
		if name, ok := strings.CutPrefix(f, valuePrefix); ok {
			sess.Values[name] = v
		}
	}
	return sess
}
