package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// ErrStoreUnreachable is returned by RunOnce when no provider could read its
// eligible orders.
var ErrStoreUnreachable = errors.New("order store unreachable")

var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule validates a cron expression with a leading seconds field.
func ParseSchedule(expr string) error {
	_, err := scheduleParser.Parse(expr)
	return err
}

type (
	CODSettlementsHandler interface {
		Handle(ctx context.Context, command commands.ConfirmCODSettlementsCommand) (commands.Report, error)
	}

	DeliveriesHandler interface {
		Handle(ctx context.Context, command commands.ReconcileDeliveriesCommand) (commands.Report, error)
	}

	// RunObserver receives the merged report of every run.
	RunObserver interface {
		ObserveRun(report commands.Report, duration time.Duration, finishedAt time.Time)
	}
)

type Options struct {
	// Schedule is a cron expression with seconds; required by Start only.
	Schedule string
	// RunTimeout bounds a whole run; zero means no bound.
	RunTimeout time.Duration
	// SettlementDate replays the settlement feed of a past day instead of today.
	SettlementDate *time.Time
}

// ReconciliationJob executes reconciliation runs.
type ReconciliationJob struct {
	codHandler        CODSettlementsHandler
	deliveriesHandler DeliveriesHandler
	observer          RunObserver
	opts              Options
	now               func() time.Time
	cron              *cron.Cron
	logger            *slog.Logger
}

func NewReconciliationJob(
	codHandler CODSettlementsHandler,
	deliveriesHandler DeliveriesHandler,
	observer RunObserver,
	opts Options,
	logger *slog.Logger,
) *ReconciliationJob {
	logger = logger.With("component", "reconciliation_job")
	cronLog := cronLogger{logger: logger}

	return &ReconciliationJob{
		codHandler:        codHandler,
		deliveriesHandler: deliveriesHandler,
		observer:          observer,
		opts:              opts,
		now:               time.Now,
		cron: cron.New(
			cron.WithParser(scheduleParser),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// RunOnce performs one full run: settlements first, then deliveries. The
// merged report is returned even when the error is ErrStoreUnreachable.
func (j *ReconciliationJob) RunOnce(ctx context.Context) (commands.Report, error) {
	runID := kernel.NewRunID()
	logger := j.logger.With("run_id", runID.String())
	started := j.now()

	if j.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.opts.RunTimeout)
		defer cancel()
	}

	asOf := started
	if j.opts.SettlementDate != nil {
		asOf = *j.opts.SettlementDate
	}

	logger.InfoContext(ctx, "Reconciliation run started", "settlement_date", asOf.Format(time.DateOnly))

	codCmd, err := commands.NewConfirmCODSettlementsCommand(runID, asOf)
	if err != nil {
		return commands.Report{}, err
	}
	codReport, err := j.codHandler.Handle(ctx, codCmd)
	if err != nil {
		return commands.Report{}, fmt.Errorf("settlement step failed: %w", err)
	}

	deliveriesCmd, err := commands.NewReconcileDeliveriesCommand(runID)
	if err != nil {
		return commands.Report{}, err
	}
	deliveriesReport, err := j.deliveriesHandler.Handle(ctx, deliveriesCmd)
	if err != nil {
		return commands.Report{}, fmt.Errorf("delivery step failed: %w", err)
	}

	report := codReport.Merge(deliveriesReport)
	finished := j.now()
	duration := finished.Sub(started)

	if j.observer != nil {
		j.observer.ObserveRun(report, duration, finished)
	}

	if report.AllEligibleReadsFailed() {
		logger.ErrorContext(ctx, "Reconciliation run failed", "report", report, "duration", duration)
		return report, ErrStoreUnreachable
	}

	totals := report.Totals()
	if report.Cancelled {
		logger.WarnContext(ctx, "Reconciliation run cut short by deadline",
			"report", report, "totals", totals, "duration", duration)
	} else {
		logger.InfoContext(ctx, "Reconciliation run finished",
			"report", report, "totals", totals, "duration", duration)
	}
	return report, nil
}

// Start schedules RunOnce on Options.Schedule.
func (j *ReconciliationJob) Start() error {
	if j.opts.Schedule == "" {
		return errors.New("reconciliation schedule is empty")
	}

	_, err := j.cron.AddFunc(j.opts.Schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("Scheduled reconciliation run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Reconciliation job started", "schedule", j.opts.Schedule)
	return nil
}

// Stop stops scheduling and waits for a running run to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Reconciliation job stopped")
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
