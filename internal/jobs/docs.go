// Package jobs runs the reconciliation on demand or on a schedule.
//
// A run is one ConfirmCODSettlements step followed by one ReconcileDeliveries
// step under a shared run id and deadline. The scheduled mode uses
// github.com/robfig/cron/v3 with a seconds field and never overlaps a run
// with itself inside one process.
//
// # Usage
//
//	job := jobs.NewReconciliationJob(codHandler, deliveriesHandler, recorder, jobs.Options{
//		Schedule:   "0 */15 * * * *",
//		RunTimeout: 10 * time.Minute,
//	}, logger)
//
//	// one-shot
//	report, err := job.RunOnce(ctx)
//
//	// daemon
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
