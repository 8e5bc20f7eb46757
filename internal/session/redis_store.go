package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/storefront/internal/domain"
)

const redisKeyPrefix = "openshelf:session:"

// RedisStore keeps each session as a hash with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, s *domain.Session) error {
	key := redisKey(s.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, toFields(s))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	return err
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := r.client.HGetAll(ctx, redisKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return fromFields(id, fields), nil
}

// touchScript refreshes last_activity and the TTL only while the hash exists, so
// a Touch racing Delete cannot recreate a bare hash without expiry.
var touchScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

func (r *RedisStore) Touch(ctx context.Context, id string) error {
	touched, err := touchScript.Run(ctx, r.client, []string{redisKey(id)},
		domain.FieldLastActivity, formatTime(r.now()), r.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if touched == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKey(id)).Err()
}

func toFields(s *domain.Session) map[string]any {
	return map[string]any{
		domain.FieldUserID:         s.UserID,
		domain.FieldUserToken:      s.Token,
		domain.FieldUserRole:       string(s.Role),
		domain.FieldDeviceID:       s.DeviceID,
		domain.FieldUserEmail:      s.Email,
		domain.FieldLibrarianEmail: s.SectionEmail,
		domain.FieldLibrarianToken: s.SectionToken,
		domain.FieldCreatedAt:      formatTime(s.CreatedAt),
		domain.FieldLastActivity:   formatTime(s.LastActivity),
	}
}

func fromFields(id string, f map[string]string) *domain.Session {
	role, _ := domain.ParseRole(f[domain.FieldUserRole])
	return &domain.Session{
		ID:           id,
		UserID:       f[domain.FieldUserID],
		Token:        f[domain.FieldUserToken],
		Role:         role,
		DeviceID:     f[domain.FieldDeviceID],
		Email:        f[domain.FieldUserEmail],
		SectionEmail: f[domain.FieldLibrarianEmail],
		SectionToken: f[domain.FieldLibrarianToken],
		CreatedAt:    parseTime(f[domain.FieldCreatedAt]),
		LastActivity: parseTime(f[domain.FieldLastActivity]),
	}
}

// Times are stored as unix milliseconds, the format the browser kept in last_activity.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseTime(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
