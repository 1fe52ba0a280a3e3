package jobx

import (
	"encoding/json"
	"time"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// Job is a unit of work to be enqueued.
type Job struct {
	Type    string          `json:"type"`
	Queue   string          `json:"queue"`
	Payload json.RawMessage `json:"payload"`

	// MaxRetries of 0 takes the client default.
	MaxRetries int `json:"max_retries"`
}

// NewJob encodes payload as JSON.
func NewJob(jobType, queue string, payload any) (Job, error) {
	if jobType == "" {
		return Job{}, ErrInvalidJob("empty job type")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, ErrInvalidJob("payload is not JSON encodable").WithCause(err)
	}
	return Job{Type: jobType, Queue: queue, Payload: raw}, nil
}

// JobInfo is a job as stored by the backend.
type JobInfo struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	MaxRetries int             `json:"max_retries"`
	Attempts   int             `json:"attempts"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DecodePayload unmarshals the payload of info into T.
func DecodePayload[T any](info *JobInfo) (T, error) {
	var v T
	if err := json.Unmarshal(info.Payload, &v); err != nil {
		return v, ErrInvalidJob("payload does not match handler").WithCause(err).WithDetail("job_type", info.Type)
	}
	return v, nil
}
