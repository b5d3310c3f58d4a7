package model

import (
	"time"
)

const (
	// StatusOK marks a successfully completed task.
	StatusOK = "ok"
	// StatusFailed marks a failure during task execution.
	StatusFailed = "failed"
	// StatusSkipped indicates the engine never ran the task.
	StatusSkipped = "skipped"
)

// TaskResult captures the outcome of one task on one host.
type TaskResult struct {
	Host    string
	Index   int
	Module  string
	Name    string
	Status  string
	Changed bool

	// Cmd is nil when the task never reached the remote host (skipped,
	// or parameter validation failed before dispatch).
	Cmd *CmdResult

	// Reason carries the failure or skip explanation.
	Reason string

	Duration time.Duration
}
