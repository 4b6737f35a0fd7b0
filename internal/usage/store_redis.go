package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"quickai-backend/internal/shared/auth"
)

const redisKeyPrefix = "quota:"

// Returns {free_usage, plan}, or {-1, plan} when the counter is already at the limit.
var incrementScript = redis.NewScript(`
local used = tonumber(redis.call('HGET', KEYS[1], 'free_usage') or '0')
local plan = redis.call('HGET', KEYS[1], 'plan') or 'free'
if used >= tonumber(ARGV[1]) then
  return {-1, plan}
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return {redis.call('HINCRBY', KEYS[1], 'free_usage', 1), plan}
`)

var refundScript = redis.NewScript(`
local used = tonumber(redis.call('HGET', KEYS[1], 'free_usage') or '0')
local plan = redis.call('HGET', KEYS[1], 'plan') or 'free'
if used > 0 then
  used = redis.call('HINCRBY', KEYS[1], 'free_usage', -1)
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[1])
return {used, plan}
`)

type redisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed usage store. Each account is a hash
// at quota:<userID>; increments run as Lua scripts so check and write are atomic.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client, now: time.Now}
}

func (s *redisStore) Ensure(ctx context.Context, userID, plan string) (Account, error) {
	key := redisKeyPrefix + userID
	now := s.now().UTC()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "plan", plan, "updated_at", now.Format(time.RFC3339Nano))
		pipe.HSetNX(ctx, key, "free_usage", 0)
		return nil
	})
	if err != nil {
		return Account{}, fmt.Errorf("redis ensure quota: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *redisStore) Get(ctx context.Context, userID string) (Account, error) {
	vals, err := s.client.HGetAll(ctx, redisKeyPrefix+userID).Result()
	if err != nil {
		return Account{}, fmt.Errorf("redis get quota: %w", err)
	}
	a := Account{UserID: userID, Plan: auth.PlanFree}
	if p, ok := vals["plan"]; ok {
		a.Plan = auth.NormalizePlan(p)
	}
	if raw, ok := vals["free_usage"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			a.FreeUsage = n
		}
	}
	if raw, ok := vals["updated_at"]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			a.UpdatedAt = ts
		}
	}
	return a, nil
}

func (s *redisStore) IncrementIfBelow(ctx context.Context, userID string, limit int) (Account, error) {
	now := s.now().UTC()
	res, err := incrementScript.Run(ctx, s.client, []string{redisKeyPrefix + userID}, limit, now.Format(time.RFC3339Nano)).Slice()
	if err != nil {
		return Account{}, fmt.Errorf("redis increment quota: %w", err)
	}
	used, plan, err := parseScriptResult(res)
	if err != nil {
		return Account{}, err
	}
	if used < 0 {
		return Account{}, ErrLimitReached
	}
	return Account{UserID: userID, Plan: plan, FreeUsage: used, UpdatedAt: now}, nil
}

func (s *redisStore) Refund(ctx context.Context, userID string) (Account, error) {
	now := s.now().UTC()
	res, err := refundScript.Run(ctx, s.client, []string{redisKeyPrefix + userID}, now.Format(time.RFC3339Nano)).Slice()
	if err != nil {
		return Account{}, fmt.Errorf("redis refund quota: %w", err)
	}
	used, plan, err := parseScriptResult(res)
	if err != nil {
		return Account{}, err
	}
	return Account{UserID: userID, Plan: plan, FreeUsage: used, UpdatedAt: now}, nil
}

func (s *redisStore) Reset(ctx context.Context, userID string) (Account, error) {
	key := redisKeyPrefix + userID
	now := s.now().UTC()
	if err := s.client.HSet(ctx, key, "free_usage", 0, "updated_at", now.Format(time.RFC3339Nano)).Err(); err != nil {
		return Account{}, fmt.Errorf("redis reset quota: %w", err)
	}
	return s.Get(ctx, userID)
}

func parseScriptResult(res []interface{}) (int, string, error) {
	if len(res) != 2 {
		return 0, "", errors.New("unexpected quota script result")
	}
	used, ok := res[0].(int64)
	if !ok {
		return 0, "", fmt.Errorf("unexpected quota counter type %T", res[0])
	}
	plan, _ := res[1].(string)
	return int(used), auth.NormalizePlan(plan), nil
}
