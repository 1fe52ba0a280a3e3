package jobx

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/passport/pkg/logx"
)

// HandlerFunc processes a job. A returned error triggers retry or failure.
type HandlerFunc func(ctx context.Context, job *JobInfo) error

// Queue is the storage backend of a Client.
type Queue interface {
	Enqueue(ctx context.Context, job Job) (string, error)
	EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error)
	GetJob(ctx context.Context, jobID string) (*JobInfo, error)

	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*JobInfo, error)
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID string, errMsg string) (retry bool, err error)
	Retry(ctx context.Context, jobID string, delay time.Duration) error
	PromoteScheduled(ctx context.Context, queues []string) error
}

// Client enqueues jobs and runs the worker pool.
type Client struct {
	queue    Queue
	opts     WorkerOptions
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
	running  bool
}

func NewClient(queue Queue, opts WorkerOptions) *Client {
	return &Client{
		queue:    queue,
		opts:     opts,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds the handler for jobType, replacing any previous one.
func (c *Client) Register(jobType string, handler HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[jobType] = handler
}

// Enqueue makes job available to workers immediately.
func (c *Client) Enqueue(ctx context.Context, job Job) (string, error) {
	return c.queue.Enqueue(ctx, c.withDefaults(job))
}

// EnqueueDelayed makes job available after delay.
func (c *Client) EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error) {
	return c.queue.EnqueueDelayed(ctx, c.withDefaults(job), delay)
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*JobInfo, error) {
	return c.queue.GetJob(ctx, jobID)
}

func (c *Client) withDefaults(job Job) Job {
	if job.Queue == "" {
		job.Queue = c.opts.Queues[0]
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = c.opts.MaxRetries
	}
	return job
}

// Start processes jobs until ctx is cancelled, then waits up to
// ShutdownTimeout for in-flight jobs.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRegistry.New(CodeAlreadyRunning)
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	logx.Infof("jobx: starting %d workers on queues %v", c.opts.Concurrency, c.opts.Queues)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.schedulerLoop(ctx)
	}()

	for i := range c.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.workerLoop(ctx, id)
		}(i)
	}

	<-ctx.Done()
	logx.Info("jobx: shutting down workers...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("jobx: all workers stopped")
	case <-time.After(c.opts.ShutdownTimeout):
		logx.Warn("jobx: shutdown timed out, some jobs may not have completed")
	}
	return nil
}

func (c *Client) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.queue.PromoteScheduled(ctx, c.opts.Queues); err != nil && ctx.Err() == nil {
				logx.WithError(err).Warn("jobx: failed to promote scheduled jobs")
			}
		}
	}
}

func (c *Client) workerLoop(ctx context.Context, id int) {
	for ctx.Err() == nil {
		job, err := c.queue.Dequeue(ctx, c.opts.Queues, c.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.WithError(err).Warnf("jobx: worker %d dequeue error", id)
			time.Sleep(c.opts.PollInterval)
			continue
		}
		if job == nil {
			continue
		}
		c.ProcessJob(ctx, job)
	}
}

// ProcessJob runs the handler for one dequeued job and records the outcome.
func (c *Client) ProcessJob(ctx context.Context, job *JobInfo) {
	c.mu.RLock()
	handler, ok := c.handlers[job.Type]
	c.mu.RUnlock()

	log := logx.WithFields(logx.Fields{"job_id": job.ID, "job_type": job.Type, "attempt": job.Attempts})

	if !ok {
		log.Warn("jobx: no handler registered")
		if _, err := c.queue.Fail(ctx, job.ID, "no handler registered for job type"); err != nil {
			log.WithError(err).Error("jobx: failed to mark job as failed")
		}
		return
	}

	if err := handler(ctx, job); err != nil {
		log.WithError(err).Warn("jobx: job failed")

		retry, failErr := c.queue.Fail(ctx, job.ID, err.Error())
		if failErr != nil {
			log.WithError(failErr).Error("jobx: failed to mark job as failed")
			return
		}
		if retry {
			if err := c.queue.Retry(ctx, job.ID, c.opts.DefaultRetryDelay); err != nil {
				log.WithError(err).Error("jobx: failed to schedule retry")
			}
		}
		return
	}

	if err := c.queue.Complete(ctx, job.ID); err != nil {
		log.WithError(err).Error("jobx: failed to complete job")
	}
}
