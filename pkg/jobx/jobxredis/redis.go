package jobxredis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Abraxas-365/passport/pkg/jobx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements jobx.Queue. Ready jobs live in a list per queue,
// delayed and retrying jobs in a sorted set scored by due time, and job
// state in one string key per job that expires after JobTTL.
type RedisQueue struct {
	rdb    *redis.Client
	prefix string
	jobTTL time.Duration
}

// NewRedisQueue creates a queue whose keys start with prefix.
func NewRedisQueue(rdb *redis.Client, prefix string) *RedisQueue {
	if prefix == "" {
		prefix = "jobx"
	}
	return &RedisQueue{rdb: rdb, prefix: prefix, jobTTL: 7 * 24 * time.Hour}
}

func (q *RedisQueue) queueKey(name string) string     { return q.prefix + ":queue:" + name }
func (q *RedisQueue) scheduledKey(name string) string { return q.prefix + ":scheduled:" + name }
func (q *RedisQueue) jobKey(id string) string         { return q.prefix + ":job:" + id }

func newInfo(job jobx.Job) *jobx.JobInfo {
	now := time.Now().UTC()
	return &jobx.JobInfo{
		ID:         uuid.NewString(),
		Type:       job.Type,
		Queue:      job.Queue,
		Payload:    job.Payload,
		Status:     jobx.JobStatusPending,
		MaxRetries: job.MaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job jobx.Job) (string, error) {
	info := newInfo(job)
	data, err := json.Marshal(info)
	if err != nil {
		return "", errCodec(err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, q.jobKey(info.ID), data, q.jobTTL)
	pipe.LPush(ctx, q.queueKey(job.Queue), info.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", jobx.ErrEnqueueFailed(err).WithDetail("queue", job.Queue)
	}
	return info.ID, nil
}

func (q *RedisQueue) EnqueueDelayed(ctx context.Context, job jobx.Job, delay time.Duration) (string, error) {
	info := newInfo(job)
	data, err := json.Marshal(info)
	if err != nil {
		return "", errCodec(err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, q.jobKey(info.ID), data, q.jobTTL)
	pipe.ZAdd(ctx, q.scheduledKey(job.Queue), redis.Z{Score: dueScore(delay), Member: info.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", jobx.ErrEnqueueFailed(err).
			WithDetail("queue", job.Queue).
			WithDetail("delay", delay.String())
	}
	return info.ID, nil
}

func (q *RedisQueue) GetJob(ctx context.Context, jobID string) (*jobx.JobInfo, error) {
	data, err := q.rdb.Get(ctx, q.jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRegistry.New(CodeNotFound).WithDetail("job_id", jobID)
		}
		return nil, errCommand("get", err)
	}

	var info jobx.JobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errCodec(err)
	}
	return &info, nil
}

// Dequeue blocks up to timeout. It returns nil, nil when nothing arrived.
func (q *RedisQueue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobx.JobInfo, error) {
	keys := make([]string, len(queues))
	for i, name := range queues {
		keys[i] = q.queueKey(name)
	}

	result, err := q.rdb.BRPop(ctx, timeout, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, errCommand("brpop", err)
	}

	// result is [key, id].
	info, err := q.GetJob(ctx, result[1])
	if err != nil {
		return nil, err
	}
	info.Status = jobx.JobStatusActive
	info.Attempts++
	if err := q.save(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (q *RedisQueue) Complete(ctx context.Context, jobID string) error {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	info.Status = jobx.JobStatusCompleted
	info.Error = ""
	return q.save(ctx, info)
}

// Fail records errMsg and reports whether attempts remain.
func (q *RedisQueue) Fail(ctx context.Context, jobID string, errMsg string) (bool, error) {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}

	retry := info.Attempts < info.MaxRetries
	info.Status = jobx.JobStatusFailed
	if retry {
		info.Status = jobx.JobStatusRetrying
	}
	info.Error = errMsg
	return retry, q.save(ctx, info)
}

func (q *RedisQueue) Retry(ctx context.Context, jobID string, delay time.Duration) error {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := q.rdb.ZAdd(ctx, q.scheduledKey(info.Queue), redis.Z{Score: dueScore(delay), Member: jobID}).Err(); err != nil {
		return errCommand("zadd", err).WithDetail("job_id", jobID)
	}
	return nil
}

var promoteScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, id in ipairs(ids) do
    redis.call('LPUSH', KEYS[2], id)
end
if #ids > 0 then
    redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
end
return #ids
`)

// PromoteScheduled moves due jobs to their ready list atomically.
func (q *RedisQueue) PromoteScheduled(ctx context.Context, queues []string) error {
	now := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	for _, name := range queues {
		err := promoteScript.Run(ctx, q.rdb, []string{q.scheduledKey(name), q.queueKey(name)}, now).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return errCommand("promote", err)
		}
	}
	return nil
}

func (q *RedisQueue) save(ctx context.Context, info *jobx.JobInfo) error {
	info.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(info)
	if err != nil {
		return errCodec(err)
	}
	if err := q.rdb.Set(ctx, q.jobKey(info.ID), data, q.jobTTL).Err(); err != nil {
		return errCommand("set", err)
	}
	return nil
}

func dueScore(delay time.Duration) float64 {
	return float64(time.Now().UTC().Add(delay).Unix())
}
