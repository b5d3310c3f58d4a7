package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/opsbook/opsbook/internal/config"
	"github.com/opsbook/opsbook/internal/logger"
	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/transport"
)

// hostState tracks one host through its processing lifecycle.
type hostState int

const (
	stateConnecting hostState = iota
	stateRunning
	stateDone
	stateAborted
)

// Options carries run-wide engine settings.
type Options struct {
	// DryRun dispatches Simulate instead of Execute; control flow is
	// otherwise identical to a real run.
	DryRun bool

	// CommandTimeout bounds each module dispatch. Zero means no bound.
	CommandTimeout time.Duration
}

// Engine applies a plan to an inventory, one host at a time, one task at a
// time within a host.
type Engine struct {
	dialer transport.Dialer
	log    *logger.Logger
	opts   Options
}

// New creates an engine. The registry is already baked into the plan; the
// engine receives everything else explicitly.
func New(dialer transport.Dialer, log *logger.Logger, opts Options) *Engine {
	return &Engine{dialer: dialer, log: log, opts: opts}
}

// Run processes hosts in inventory order and returns the aggregated result.
// Task results stream into the result as they are produced.
func (e *Engine) Run(ctx context.Context, inv *config.Inventory, plan *Plan) *model.PlaybookResult {
	result := &model.PlaybookResult{}

	for _, host := range inv.Hosts {
		e.runHost(ctx, host, plan, result)
	}

	e.log.Info("playbook finished: " + result.Summary())
	return result
}

// runHost drives one host through the connecting/running/done/aborted
// machine. Every exit path records exactly one TaskResult per task and
// closes the session when one was opened.
func (e *Engine) runHost(ctx context.Context, host config.Host, plan *Plan, result *model.PlaybookResult) {
	var (
		state  = stateConnecting
		sess   transport.Session
		next   int
		reason string
	)

	for {
		switch state {
		case stateConnecting:
			s, err := e.dialer.Dial(ctx, host)
			if err != nil {
				e.log.Error(err, "host unreachable: "+host.Name)
				result.AddUnreachable()
				reason = err.Error()
				state = stateAborted
				continue
			}
			sess = s
			defer sess.Close()
			state = stateRunning

		case stateRunning:
			for next < len(plan.Tasks) {
				res := e.runTask(ctx, sess, host, next, plan.Tasks[next])
				next++
				result.Add(res)
				e.report(res)

				if res.Status == model.StatusFailed {
					reason = "previous task failed"
					state = stateAborted
					break
				}
			}
			if state == stateRunning {
				state = stateDone
			}

		case stateAborted:
			for ; next < len(plan.Tasks); next++ {
				res := model.TaskResult{
					Host:   host.Name,
					Index:  next,
					Module: plan.Tasks[next].Task.Module,
					Name:   plan.Tasks[next].Task.Name,
					Status: model.StatusSkipped,
					Reason: reason,
				}
				result.Add(res)
				e.report(res)
			}
			return

		case stateDone:
			return
		}
	}
}

// runTask dispatches one task through its module. A panic inside the module
// call is captured as a failed result rather than crashing the run.
func (e *Engine) runTask(ctx context.Context, sess transport.Session, host config.Host, index int, bound BoundTask) (res model.TaskResult) {
	start := time.Now()
	res = model.TaskResult{Host: host.Name, Index: index, Module: bound.Task.Module, Name: bound.Task.Name}

	defer func() {
		if r := recover(); r != nil {
			res.Status = model.StatusFailed
			res.Changed = false
			res.Cmd = nil
			res.Reason = fmt.Sprintf("internal error: %v", r)
		}
		res.Duration = time.Since(start)
	}()

	if err := bound.Module.Validate(bound.Params); err != nil {
		res.Status = model.StatusFailed
		res.Reason = err.Error()
		return res
	}

	taskCtx := ctx
	if e.opts.CommandTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, e.opts.CommandTimeout)
		defer cancel()
	}

	var cmd *model.CmdResult
	var err error
	if e.opts.DryRun {
		cmd, err = bound.Module.Simulate(taskCtx, sess, bound.Params)
	} else {
		cmd, err = bound.Module.Execute(taskCtx, sess, bound.Params)
	}

	if err != nil {
		res.Status = model.StatusFailed
		res.Reason = err.Error()
		return res
	}

	if !cmd.Success() {
		res.Status = model.StatusFailed
		res.Cmd = cmd
		res.Reason = fmt.Sprintf("exit code %d: %s", cmd.ExitCode, cmd.Output())
		return res
	}

	res.Status = model.StatusOK
	res.Changed = cmd.Changed
	res.Cmd = cmd
	return res
}

// report emits the per-task line: host, module, status, and the changed
// indicator when set.
func (e *Engine) report(res model.TaskResult) {
	fields := map[string]any{
		"host":   res.Host,
		"module": res.Module,
		"status": res.Status,
	}
	if res.Name != "" {
		fields["task"] = res.Name
	}
	if res.Changed {
		fields["changed"] = true
	}
	if res.Reason != "" {
		fields["reason"] = res.Reason
	}

	log := e.log.WithFields(fields)
	switch res.Status {
	case model.StatusFailed:
		log.Error(nil, "task failed")
	case model.StatusSkipped:
		log.Warn("task skipped")
	default:
		log.Info("task ok")
	}
}
