package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// verifyScript compares and consumes a code atomically.
// Stored value: "<code>:<issued unix ms>". Returns 0 invalid, 1 ok, 2 expired.
const verifyScript = `
local v = redis.call("GET", KEYS[1])
if not v then
  return 0
end
local sep = string.find(v, ":", 1, true)
if not sep then
  redis.call("DEL", KEYS[1])
  return 0
end
if string.sub(v, 1, sep - 1) ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
local issued = tonumber(string.sub(v, sep + 1))
if tonumber(ARGV[2]) - issued > tonumber(ARGV[3]) then
  return 2
end
return 1
`

const (
	verifyInvalid = 0
	verifyOK      = 1
	verifyExpired = 2
)

// redisClient is the part of *redis.Client the store needs.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisStore keeps codes in Redis so every replica sees the same state.
// Keys outlive the code by retention so a late attempt still reports
// ErrCodeExpired rather than ErrInvalidCode.
type RedisStore struct {
	client    redisClient
	ttl       time.Duration
	retention time.Duration
	prefix    string
	now       func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return newRedisStore(client, ttl)
}

func newRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		retention: time.Hour,
		prefix:    "otp:code:",
		now:       time.Now,
	}
}

func (s *RedisStore) key(email string) string { return s.prefix + email }

func (s *RedisStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	value := code + ":" + strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.client.Set(ctx, s.key(email), value, s.ttl+s.retention).Err(); err != nil {
		return "", fmt.Errorf("otp: store code: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, email, code string) error {
	res, err := s.client.Eval(ctx, verifyScript, []string{s.key(email)},
		code, s.now().UnixMilli(), s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("otp: verify code: %w", err)
	}
	switch res {
	case verifyOK:
		return nil
	case verifyExpired:
		return ErrCodeExpired
	default:
		return ErrInvalidCode
	}
}
