package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"webhaak/internal/model"
)

const (
	// Named queue to prevent clashes with other workers on the same Redis.
	listKey      = "webhaak:jobs"
	jobKeyPrefix = "webhaak:job:"

	// Job state is kept around for a week for the status endpoint.
	stateTTL = 7 * 24 * time.Hour
)

// RedisQueue is the Redis-backed Queue implementation: a list for the job
// transport and a hash per job for its state.
type RedisQueue struct {
	client *redis.Client
}

// NewRedis creates a queue on the given Redis connection options.
func NewRedis(opt *redis.Options) *RedisQueue {
	return &RedisQueue{client: redis.NewClient(opt)}
}

// NewRedisWithClient wraps an existing client, for tests.
func NewRedisWithClient(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Ping verifies the Redis connection.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

// Enqueue pushes the job and records its queued state.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, listKey, raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	key := jobKey(job.ID)
	fields := map[string]any{
		"status":      StatusQueued,
		"enqueued_at": job.EnqueuedAt.Format(time.RFC3339Nano),
	}
	if err := q.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to store job state: %w", err)
	}
	return q.client.Expire(ctx, key, stateTTL).Err()
}

// Dequeue blocks on the named queue until a job arrives.
func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	values, err := q.client.BRPop(ctx, 0, listKey).Result()
	if err != nil {
		return Job{}, fmt.Errorf("failed to pop job: %w", err)
	}
	// BRPop returns [key, value]
	if len(values) != 2 {
		return Job{}, fmt.Errorf("unexpected BRPOP reply of %d values", len(values))
	}

	var job Job
	if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
		return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}

// SetStatus transitions the job's lifecycle state.
func (q *RedisQueue) SetStatus(ctx context.Context, jobID, status string) error {
	key := jobKey(jobID)
	fields := map[string]any{"status": status}
	if status == StatusStarted {
		fields["started_at"] = time.Now().Format(time.RFC3339Nano)
	}
	if err := q.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to set job status: %w", err)
	}
	return q.client.Expire(ctx, key, stateTTL).Err()
}

// SetResult stores the terminal result alongside the final status.
func (q *RedisQueue) SetResult(ctx context.Context, jobID, status string, result model.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	key := jobKey(jobID)
	fields := map[string]any{
		"status":   status,
		"result":   raw,
		"ended_at": time.Now().Format(time.RFC3339Nano),
	}
	if err := q.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to set job result: %w", err)
	}
	return q.client.Expire(ctx, key, stateTTL).Err()
}

// State reads a job's state; a missing hash means the job is unknown.
func (q *RedisQueue) State(ctx context.Context, jobID string) (State, error) {
	values, err := q.client.HGetAll(ctx, jobKey(jobID)).Result()
	if err != nil {
		return State{}, fmt.Errorf("failed to read job state: %w", err)
	}
	if len(values) == 0 {
		return State{Status: StatusUnknown}, nil
	}

	state := State{Status: values["status"]}
	if raw, ok := values["result"]; ok && raw != "" {
		var result model.Result
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return State{}, fmt.Errorf("failed to unmarshal job result: %w", err)
		}
		state.Result = &result
	}
	return state, nil
}
