package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/staybook/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Job is one periodic maintenance task.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (removed int, err error)
}

// Sweeper is implemented by the in-memory revocation store.
type Sweeper interface {
	Sweep() int
}

// Pruner is implemented by the audit service.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// RevocationSweep drops expired entries from an in-memory revocation store.
func RevocationSweep(spec string, s Sweeper) Job {
	return Job{
		Name: "revocation_sweep",
		Spec: spec,
		Run: func(context.Context) (int, error) {
			return s.Sweep(), nil
		},
	}
}

// AuditPrune deletes audit entries older than retention.
func AuditPrune(spec string, p Pruner, retention time.Duration) Job {
	return Job{
		Name: "audit_prune",
		Spec: spec,
		Run: func(ctx context.Context) (int, error) {
			n, err := p.Prune(ctx, retention)
			return int(n), err
		},
	}
}

// Run registers jobs with a cron scheduler and blocks until ctx is done. Jobs that are still
// running when ctx ends are allowed to finish before Run returns.
func Run(ctx context.Context, jobs ...Job) error {
	c := cron.New()
	for _, j := range jobs {
		job := j
		if _, err := c.AddFunc(job.Spec, func() { runJob(ctx, job) }); err != nil {
			return fmt.Errorf("scheduler: invalid spec %q for %s: %w", job.Spec, job.Name, err)
		}
		slog.Info("scheduler: job registered", "job", job.Name, "spec", job.Spec)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func runJob(ctx context.Context, job Job) {
	start := time.Now()
	removed, err := job.Run(ctx)
	if err != nil {
		slog.Error("scheduler: job failed", "job", job.Name, "error", err)
		return
	}
	metrics.AddMaintenanceRemoved(job.Name, removed)
	slog.Info("scheduler: job finished", "job", job.Name, "removed", removed, "duration_ms", time.Since(start).Milliseconds())
}
