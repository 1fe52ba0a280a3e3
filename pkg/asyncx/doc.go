// Package asyncx holds the few concurrency helpers the service needs off the
// request path.
//
// # Fire and forget
//
// [Go] runs work after the request has returned, e.g. mail delivery. The
// context passed to the work keeps request-scoped values for logging but is
// not cancelled when the request ends:
//
//	asyncx.Go(ctx, 30*time.Second, "mail.send", func(ctx context.Context) error {
//	    return client.SendTemplated(ctx, mail)
//	})
//
// # Fan-out
//
// [AllSettled] runs independent checks concurrently and reports each
// outcome, used by the health endpoint to ping dependencies.
//
// # Retry
//
// [RetryWithBackoff] retries a transient operation with exponential backoff.
package asyncx
