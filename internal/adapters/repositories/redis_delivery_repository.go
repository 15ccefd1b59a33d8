package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sandbox-delivery-service/internal/domain"
	"sandbox-delivery-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const (
	redisDeliveryKeyPrefix = "sandbox:delivery:"
	redisDeliveryIndexKey  = "sandbox:deliveries"
)

// Redis-backed implementation of the DeliveryRepository port.
// Each record is a JSON string; a sorted set scored by creation time keeps
// listing order stable across replicas.
type RedisDeliveryRepository struct {
	Client redis.UniversalClient
}

func NewRedisDeliveryRepository(client redis.UniversalClient) *RedisDeliveryRepository {
	return &RedisDeliveryRepository{Client: client}
}

func (r *RedisDeliveryRepository) Get(ctx context.Context, id string) (_ *domain.SandboxDelivery, _ bool, err error) {
	defer obs.Time(ctx, "delivery.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("redis delivery repository: client is nil")
	}

	raw, err := r.Client.Get(ctx, redisDeliveryKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get delivery: read %q: %w", id, err)
	}

	var d domain.SandboxDelivery
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("get delivery: decode %q: %w", id, err)
	}
	return &d, true, nil
}

func (r *RedisDeliveryRepository) Save(ctx context.Context, d *domain.SandboxDelivery) (err error) {
	defer obs.Time(ctx, "delivery.redis.Save")(&err)

	if r.Client == nil {
		return errors.New("redis delivery repository: client is nil")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("save delivery: encode %q: %w", d.ID, err)
	}

	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisDeliveryKeyPrefix+d.ID, raw, 0)
		pipe.ZAdd(ctx, redisDeliveryIndexKey, redis.Z{
			Score:  float64(d.CreatedAt.UnixMilli()),
			Member: d.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save delivery: write %q: %w", d.ID, err)
	}
	return nil
}

func (r *RedisDeliveryRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "delivery.redis.Delete")(&err)

	if r.Client == nil {
		return errors.New("redis delivery repository: client is nil")
	}

	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisDeliveryKeyPrefix+id)
		pipe.ZRem(ctx, redisDeliveryIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete delivery: %q: %w", id, err)
	}
	return nil
}

func (r *RedisDeliveryRepository) List(ctx context.Context) (_ []*domain.SandboxDelivery, err error) {
	defer obs.Time(ctx, "delivery.redis.List")(&err)

	if r.Client == nil {
		return nil, errors.New("redis delivery repository: client is nil")
	}

	ids, err := r.Client.ZRange(ctx, redisDeliveryIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list deliveries: read index: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.SandboxDelivery{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisDeliveryKeyPrefix+id)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list deliveries: read records: %w", err)
	}

	out := make([]*domain.SandboxDelivery, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it.
			continue
		}
		var d domain.SandboxDelivery
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			return nil, fmt.Errorf("list deliveries: decode %q: %w", ids[i], err)
		}
		out = append(out, &d)
	}
	return out, nil
}
