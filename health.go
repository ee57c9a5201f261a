package hilt

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

type HealthReport struct {
	Name    string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker is implemented by instances that can report their own health.
// Only instances already cached in the container are checked; Health never
// builds anything.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Live returns the first failing check as a HEALTH_CHECK_FAILED error.
func (c *Container) Live(ctx context.Context) error {
	for _, r := range c.Health(ctx) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Name, r.Error)
		}
	}
	return nil
}

// Health runs the checks of every cached HealthChecker in c concurrently. Reports
// follow cache creation order. A panicking check is reported as down.
func (c *Container) Health(ctx context.Context) []HealthReport {
	entries := c.internal.Cached()
	slots := make([]*HealthReport, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		checker, ok := entry.Instance.(HealthChecker)
		if !ok {
			continue
		}
		name := entry.Key.String()

		g.Go(func() error {
			report := runCheck(gctx, name, checker)
			slots[i] = &report
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]HealthReport, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports
}

func runCheck(ctx context.Context, name string, checker HealthChecker) (report HealthReport) {
	report = HealthReport{Name: name, Status: HealthStatusUnknown}
	start := time.Now()

	defer zerr.Defer(func(err error) {
		report.Status = HealthStatusDown
		report.Error = err
		report.Latency = time.Since(start)
	})

	err := checker.HealthCheck(ctx)
	report.Latency = time.Since(start)
	if err != nil {
		report.Status = HealthStatusDown
		report.Error = err
		return report
	}
	report.Status = HealthStatusUp
	return report
}

func (r HealthReport) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: %s (%s): %v", r.Name, r.Status, r.Latency, r.Error)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Name, r.Status, r.Latency)
}
