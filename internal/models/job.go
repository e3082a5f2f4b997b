// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

const (
	JobStatusRunning    JobStatus = "running"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
	JobStatusSuperseded JobStatus = "superseded"
)

// Job tracks one generate invocation for a client. Pins is only populated
// when Status is done.
type Job struct {
	ID        uuid.UUID `json:"id"`
	ClientID  string    `json:"client_id,omitempty"`
	Status    JobStatus `json:"status"`
	Message   string    `json:"message,omitempty"`
	Pins      []Pin     `json:"pins"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFinished returns true once the job can no longer change.
func (j *Job) IsFinished() bool {
	return j.Status != JobStatusRunning
}
