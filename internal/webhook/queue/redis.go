package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "railhook/internal/platform/redis"
	"railhook/internal/webhook"
)

const (
	// How long BRPOP blocks before re-checking the delayed set and the
	// context. Short enough for responsive shutdown.
	popTimeout = 2 * time.Second

	// How many due delayed jobs are promoted per pass.
	promoteBatch = 100
)

// RedisQueue is the production Queue: dedup markers via SETNX, a ready list
// consumed with BRPOP, and a delayed ZSET scored by ready-at time for
// backoff retries. Safe across multiple worker processes.
type RedisQueue struct {
	client   *platformredis.Client
	rail     webhook.Rail
	dedupTTL time.Duration
}

func NewRedisQueue(client *platformredis.Client, rail webhook.Rail, dedupTTL time.Duration) *RedisQueue {
	return &RedisQueue{client: client, rail: rail, dedupTTL: dedupTTL}
}

func (q *RedisQueue) seenKey(jobID string) string {
	return fmt.Sprintf("railhook:q:%s:seen:%s", q.rail, jobID)
}

func (q *RedisQueue) readyKey() string {
	return fmt.Sprintf("railhook:q:%s:ready", q.rail)
}

func (q *RedisQueue) delayedKey() string {
	return fmt.Sprintf("railhook:q:%s:delayed", q.rail)
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *webhook.Job) (bool, error) {
	// The dedup marker is the first line of defense against duplicated
	// deliveries; it outlives the job itself for the configured TTL.
	set, err := q.client.SetNX(ctx, q.seenKey(job.ID), "1", q.dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("set dedup marker: %w", err)
	}
	if !set {
		return false, nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.readyKey(), payload).Err(); err != nil {
		return false, fmt.Errorf("push job: %w", err)
	}
	return true, nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*webhook.Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := q.promoteDue(ctx); err != nil {
			return nil, err
		}

		result, err := q.client.BRPop(ctx, popTimeout, q.readyKey()).Result()
		if errors.Is(err, redis.Nil) {
			continue // timeout, poll again
		}
		if err != nil {
			return nil, fmt.Errorf("pop job: %w", err)
		}

		// BRPOP returns [key, value].
		var job webhook.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			return nil, fmt.Errorf("unmarshal job: %w", err)
		}
		return &job, nil
	}
}

func (q *RedisQueue) Retry(ctx context.Context, job *webhook.Job, delay time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	readyAt := float64(time.Now().Add(delay).UnixMilli())
	err = q.client.ZAdd(ctx, q.delayedKey(), redis.Z{Score: readyAt, Member: payload}).Err()
	if err != nil {
		return fmt.Errorf("schedule retry: %w", err)
	}
	return nil
}

// promoteDue moves delayed jobs whose ready-at time has passed back onto the
// ready list.
func (q *RedisQueue) promoteDue(ctx context.Context) error {
	now := fmt.Sprintf("%d", time.Now().UnixMilli())
	due, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   now,
		Count: promoteBatch,
	}).Result()
	if err != nil {
		return fmt.Errorf("list due jobs: %w", err)
	}
	if len(due) == 0 {
		return nil
	}
	return q.promote(ctx, due)
}

// promote claims each candidate with ZREM before pushing it. Several worker
// processes can read the same member as due; ZREM reports which one removed
// it, and only that one pushes, so a delayed job lands on the ready list
// exactly once.
func (q *RedisQueue) promote(ctx context.Context, members []string) error {
	claim := q.client.TxPipeline()
	removed := make([]*redis.IntCmd, len(members))
	for i, member := range members {
		removed[i] = claim.ZRem(ctx, q.delayedKey(), member)
	}
	if _, err := claim.Exec(ctx); err != nil {
		return fmt.Errorf("claim due jobs: %w", err)
	}

	push := q.client.Pipeline()
	var claimed bool
	for i, member := range members {
		if removed[i].Val() == 0 {
			continue // another worker claimed it first
		}
		push.LPush(ctx, q.readyKey(), member)
		claimed = true
	}
	if !claimed {
		return nil
	}
	if _, err := push.Exec(ctx); err != nil {
		return fmt.Errorf("promote due jobs: %w", err)
	}
	return nil
}
