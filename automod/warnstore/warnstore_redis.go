package warnstore

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisWarnPrefix string = "warnings/"

// RedisWarnStore keeps each user's ledger in a sorted set scored by warning
// creation time, so expiry pruning is a range removal.
type RedisWarnStore struct {
	Client *redis.Client
}

var _ WarnStore = (*RedisWarnStore)(nil)

func NewRedisWarnStore(redisURL string) (*RedisWarnStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisWarnStore{Client: rdb}, nil
}

func (s *RedisWarnStore) Issue(ctx context.Context, communityID, userID string, w Warning, expiry time.Duration) (int, error) {
	key := redisWarnPrefix + ledgerKey(communityID, userID)

	member, err := json.Marshal(w)
	if err != nil {
		return 0, err
	}

	// entries exactly at the cutoff have age == expiry and are already invalid
	cutoff := w.CreatedAt.Add(-expiry).UnixMilli()

	// prune, append, and count in a single round-trip
	multi := s.Client.Pipeline()
	multi.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	multi.ZAdd(ctx, key, redis.Z{
		Score:  float64(w.CreatedAt.UnixMilli()),
		Member: string(member),
	})
	card := multi.ZCard(ctx, key)
	// the whole ledger is garbage once everything in it has expired
	multi.Expire(ctx, key, 2*expiry)
	if _, err := multi.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

func (s *RedisWarnStore) Clear(ctx context.Context, communityID, userID string) error {
	return s.Client.Del(ctx, redisWarnPrefix+ledgerKey(communityID, userID)).Err()
}
