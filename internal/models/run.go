package models

import (
	"time"

	"github.com/google/uuid"
)

// Run modes.
const (
	ModeBulk   = "bulk"
	ModeSingle = "single"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusFailed    = "failed"
)

// Run is the transient result of one invocation.
type Run struct {
	ID             string     `json:"id"`
	Mode           string     `json:"mode"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Error          string     `json:"error,omitempty"`
	Fetched        int        `json:"fetched"`
	AlreadyEnabled int        `json:"already_enabled"`
	Candidates     int        `json:"candidates"`
	Updated        []string   `json:"updated"`
	Failed         []string   `json:"failed"`
}

// NewRun starts a run, assigning it a UUID.
func NewRun() *Run {
	return &Run{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		StartedAt: time.Now(),
		Updated:   []string{},
		Failed:    []string{},
	}
}

// RecordUpdated appends the name of a successfully patched form.
func (r *Run) RecordUpdated(name string) {
	r.Updated = append(r.Updated, name)
}

// RecordFailed appends the name of a form whose update failed.
func (r *Run) RecordFailed(name string) {
	r.Failed = append(r.Failed, name)
}

// Complete marks the run as completed.
func (r *Run) Complete() {
	r.finish(StatusCompleted)
}

// Abort marks the run as stopped before any mutation, without error.
func (r *Run) Abort() {
	r.finish(StatusAborted)
}

// Fail marks the run as failed with an error message.
func (r *Run) Fail(err string) {
	r.Error = err
	r.finish(StatusFailed)
}

func (r *Run) finish(status string) {
	r.Status = status
	now := time.Now()
	r.FinishedAt = &now
}
