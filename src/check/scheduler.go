package check

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/prplanit/clank/src/output"
)

// RunResult is the aggregate outcome of a whole run.
type RunResult struct {
	// ExitCode is 0 iff no task reported failure.
	ExitCode int
	// Failed counts the tasks that reported failure.
	Failed int
}

// Scheduler drains a pre-populated task queue across a fixed pool of
// workers. Parallelism exists to overlap the latency of external tool
// invocations, not CPU work in here.
type Scheduler struct {
	Runner  Runner
	Console *output.Console
}

// RunAll executes every task across min(jobs, len(tasks)) workers and blocks
// until all of them have drained the queue. The queue is fully populated
// before the first worker starts, so workers only ever dequeue; there is no
// producer race. Tasks run in no guaranteed order, possibly concurrently for
// the same source path. Once started, a run cannot be canceled early.
func (s *Scheduler) RunAll(ctx context.Context, tasks []Task, opts Options, jobs int) RunResult {
	if len(tasks) == 0 {
		return RunResult{}
	}

	workers := min(jobs, len(tasks))
	if workers < 1 {
		workers = 1
	}

	queue := make(chan Task, len(tasks))
	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	var failures atomic.Int64

	var group errgroup.Group
	for range workers {
		group.Go(func() error {
			for task := range queue {
				if s.runOne(ctx, task, opts) {
					failures.Add(1)
				}
			}
			return nil
		})
	}

	// Workers never return errors; failures travel through the counter.
	_ = group.Wait()

	result := RunResult{Failed: int(failures.Load())}
	if result.Failed > 0 {
		result.ExitCode = 1
	}
	return result
}

// runOne executes a single task and writes its output block atomically.
// A task that cannot run at all fails alone: the error becomes that task's
// diagnostic and sibling workers are left untouched.
func (s *Scheduler) runOne(ctx context.Context, task Task, opts Options) (failed bool) {
	lines, failed, err := task.Run(ctx, s.Runner, opts)
	if err != nil {
		lines = []string{fmt.Sprintf("%s:1:1: warning: %s: %v", task.Source, task.Variant, err)}
		failed = true
	}

	s.Console.WriteBlock(lines)
	return failed
}
