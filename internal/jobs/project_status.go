package jobs

import (
	"context"
	"time"

	"portfolio_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ProjectActivator is the part of project.Service the job drives.
type ProjectActivator interface {
	ActivateDueProjects(ctx context.Context, now time.Time) (int, error)
}

// ProjectStatusJob moves upcoming projects to ongoing once their start date arrives.
type ProjectStatusJob struct {
	projects      ProjectActivator
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	now           func() time.Time
}

// NewProjectStatusJob creates a new ProjectStatusJob.
func NewProjectStatusJob(projects ProjectActivator, logger *zap.Logger, cfg *config.Config) *ProjectStatusJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &ProjectStatusJob{
		projects:      projects,
		logger:        logger.Named("ProjectStatusJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetupAndStart schedules the job on PROJECT_STATUS_JOB_SCHEDULE and starts the scheduler.
func (j *ProjectStatusJob) SetupAndStart() error {
	jobSpec := j.cfg.ProjectStatusJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Project status job schedule not defined (PROJECT_STATUS_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule project status job", zap.String("schedule", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Project status job scheduled", zap.String("schedule", jobSpec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *ProjectStatusJob) runJob() {
	j.logger.Info("Starting project status job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	activated, err := j.projects.ActivateDueProjects(ctx, j.now())
	if err != nil {
		j.logger.Error("Project status job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Project status job run completed", zap.Int("projects_activated", activated))
}

// Stop gracefully stops the cron scheduler.
func (j *ProjectStatusJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping project status job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Project status job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Project status job scheduler stop timed out.")
	}
}
