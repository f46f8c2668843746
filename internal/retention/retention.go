package retention

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

// MetricsPruner deletes cached metrics dated strictly before a day key.
type MetricsPruner interface {
	DeleteMetricsBefore(date string) (int64, error)
}

// Scheduler periodically prunes daily metrics for dates that no trend
// window can reach anymore. It never refreshes or pre-warms the cache; the
// cache is populated lazily by trend requests only.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    MetricsPruner
	interval  time.Duration
}

// New creates a new Scheduler.
func New(pruner MetricsPruner, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		interval:  interval,
	}
}

// Start schedules the periodic pruning job.
func (s *Scheduler) Start() error {
	hours := int(s.interval.Hours())
	if hours <= 0 {
		hours = 24
	}

	_, err := s.scheduler.Every(hours).Hours().Do(s.prune)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// prune drops every metric row no trend window can reach anymore. A
// location can be at most one calendar day behind UTC, so rows older than
// yesterday-UTC are unreachable everywhere.
func (s *Scheduler) prune() {
	cutoff := time.Now().UTC().AddDate(0, 0, -1).Format(suitability.DateLayout)

	n, err := s.pruner.DeleteMetricsBefore(cutoff)
	if err != nil {
		log.Printf("retention: prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("retention: pruned %d expired metric rows", n)
	}
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
