package jobs

import (
	"fmt"
)

// JobManager coordinates the scheduled jobs of daemon mode.
type JobManager struct {
	reconciliationJob *ReconciliationJob
}

func NewJobManager(reconciliationJob *ReconciliationJob) *JobManager {
	return &JobManager{
		reconciliationJob: reconciliationJob,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
