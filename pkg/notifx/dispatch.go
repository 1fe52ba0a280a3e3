package notifx

import (
	"context"
	"time"

	"github.com/Abraxas-365/passport/pkg/asyncx"
	"github.com/Abraxas-365/passport/pkg/jobx"
	"github.com/Abraxas-365/passport/pkg/logx"
)

// JobTypeSendMail is the jobx job type carrying a TemplatedMail.
const JobTypeSendMail = "mail.send"

// Dispatcher hands mail off without waiting for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, mail TemplatedMail)
}

// AsyncDispatcher sends on a detached goroutine, retrying transient failures.
type AsyncDispatcher struct {
	client   *Client
	timeout  time.Duration
	attempts int
}

func NewAsyncDispatcher(client *Client) *AsyncDispatcher {
	return &AsyncDispatcher{client: client, timeout: 30 * time.Second, attempts: 3}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, mail TemplatedMail) {
	asyncx.Go(ctx, d.timeout, JobTypeSendMail, func(ctx context.Context) error {
		_, err := asyncx.RetryWithBackoff(ctx, d.attempts, 500*time.Millisecond, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.client.SendTemplated(ctx, mail)
		})
		if err == nil {
			logx.WithContext(ctx).WithField("keyword", mail.Keyword).Debug("notifx: mail sent")
		}
		return err
	})
}

// Enqueuer is the part of jobx.Client the queue dispatcher needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, job jobx.Job) (string, error)
}

// QueueDispatcher enqueues a mail.send job. If enqueueing fails the mail is
// sent in process instead.
type QueueDispatcher struct {
	queue    Enqueuer
	fallback Dispatcher
}

func NewQueueDispatcher(queue Enqueuer, fallback Dispatcher) *QueueDispatcher {
	return &QueueDispatcher{queue: queue, fallback: fallback}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, mail TemplatedMail) {
	job, err := jobx.NewJob(JobTypeSendMail, "", mail)
	if err == nil {
		if _, err = d.queue.Enqueue(ctx, job); err == nil {
			return
		}
	}

	logx.WithContext(ctx).WithError(err).WithField("keyword", mail.Keyword).Warn("notifx: enqueue failed, sending in process")
	if d.fallback != nil {
		d.fallback.Dispatch(ctx, mail)
	}
}

// MailJobHandler returns the jobx handler that delivers queued mail.
func MailJobHandler(client *Client) jobx.HandlerFunc {
	return func(ctx context.Context, info *jobx.JobInfo) error {
		mail, err := jobx.DecodePayload[TemplatedMail](info)
		if err != nil {
			return err
		}
		return client.SendTemplated(ctx, mail)
	}
}
