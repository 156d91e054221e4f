package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/store"
)

// requiredColumns are the store columns the scheduler reads or writes. A
// store missing any of them must stop the process at startup instead of
// silently skipping rows.
var requiredColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"body",
	"platform",
	"status",
	"scheduled_at",
	"created_at",
	"updated_at",
}

// Reconciler keeps the in-memory job registry consistent with the durable
// store: a full load at startup, then a periodic sweep that picks up
// scheduled records inserted behind the facade's back.
type Reconciler struct {
	store    store.ScheduleStore
	registry *JobRegistry
	arm      func(record *models.ScheduledContent)
	interval time.Duration
	location *time.Location
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewReconciler(st store.ScheduleStore, registry *JobRegistry, arm func(*models.ScheduledContent), interval time.Duration, location *time.Location, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:    st,
		registry: registry,
		arm:      arm,
		interval: interval,
		location: location,
		logger:   logger,
	}
}

// Start validates the store schema, loads every future scheduled record,
// and begins the periodic sweep. Schema validation failure is fatal; no
// timer is armed in that case.
func (r *Reconciler) Start() error {
	if err := r.validateSchema(); err != nil {
		return err
	}

	if err := r.loadScheduled(); err != nil {
		return err
	}

	r.cron = cron.New(cron.WithLocation(r.location))
	if _, err := r.cron.AddFunc("@every "+r.interval.String(), r.sweep); err != nil {
		return err
	}
	r.cron.Start()

	r.logger.Info("Reconciler started", zap.Duration("sweep_interval", r.interval))
	return nil
}

func (r *Reconciler) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
		r.cron = nil
	}
	r.logger.Info("Reconciler stopped")
}

func (r *Reconciler) validateSchema() error {
	columns, err := r.store.Columns()
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, c := range requiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaIncompleteError{Missing: missing}
	}
	return nil
}

func (r *Reconciler) loadScheduled() error {
	records, err := r.store.QueryByStatus(models.StatusScheduled, "")
	if err != nil {
		return err
	}

	armed := 0
	now := time.Now()
	for i := range records {
		record := records[i]
		if !record.ScheduledAt.After(now) {
			// Past-due records are armed too; the timer fires on the next
			// tick rather than being dropped.
			r.logger.Warn("Arming past-due record",
				zap.String("content_id", record.ID),
				zap.Time("scheduled_at", record.ScheduledAt))
		}
		r.arm(&record)
		armed++
	}

	r.logger.Info("Startup reconciliation completed", zap.Int("armed", armed))
	return nil
}

// sweep arms scheduled records with a future fire time that have no timer,
// catching rows inserted by paths other than the facade. A failed sweep
// logs and waits for the next tick; it must never crash the process.
func (r *Reconciler) sweep() {
	records, err := r.store.QueryByStatus(models.StatusScheduled, "")
	if err != nil {
		r.logger.Error("Reconciliation sweep failed", zap.Error(err))
		return
	}

	armed := 0
	now := time.Now()
	for i := range records {
		record := records[i]
		if r.registry.Armed(record.ID) {
			continue
		}
		if !record.ScheduledAt.After(now) {
			continue
		}
		r.arm(&record)
		armed++
	}

	if armed > 0 {
		r.logger.Info("Reconciliation sweep armed records", zap.Int("armed", armed))
	}
}
