package model

import (
	"fmt"
)

// PlaybookResult aggregates task results across a whole run. Results are
// appended in production order; counters track the run totals. It is owned
// by the engine goroutine and never accessed concurrently.
type PlaybookResult struct {
	Results []TaskResult

	OK      int
	Failed  int
	Changed int
	Skipped int

	// Unreachable counts hosts whose session never opened.
	Unreachable int
}

// Add appends a task result and updates the matching counters.
func (p *PlaybookResult) Add(res TaskResult) {
	p.Results = append(p.Results, res)

	switch res.Status {
	case StatusOK:
		p.OK++
		if res.Changed {
			p.Changed++
		}
	case StatusFailed:
		p.Failed++
	case StatusSkipped:
		p.Skipped++
	}
}

// AddUnreachable records a host whose connection failed.
func (p *PlaybookResult) AddUnreachable() {
	p.Unreachable++
}

// Success reports whether every task completed and every host was reachable.
func (p *PlaybookResult) Success() bool {
	return p.Failed == 0 && p.Unreachable == 0
}

// Summary renders the run totals as a single report line.
func (p *PlaybookResult) Summary() string {
	return fmt.Sprintf("ok=%d changed=%d failed=%d skipped=%d unreachable=%d",
		p.OK, p.Changed, p.Failed, p.Skipped, p.Unreachable)
}
