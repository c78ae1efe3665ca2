package jobrunner

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultSchedule runs jobs once a day.
const DefaultSchedule = "@midnight"

// Job is a unit of work run on schedule.
type Job func(ctx context.Context) error

// Runner runs jobs on cron schedules. A run of a job is skipped if the
// previous one is still in progress.
type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
	cancel  context.CancelFunc
}

func New(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	logger := cron.PrintfLogger(log.StandardLogger())
	return &Runner{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Add schedules the job. The schedule is either in the standard 5 fields
// format or a descriptor like @midnight or @every 1h.
func (r *Runner) Add(name, schedule string, job Job) error {
	if len(schedule) <= 0 {
		schedule = DefaultSchedule
	}
	if _, err := r.cron.AddFunc(schedule, func() {
		started := time.Now()
		log.Debugf("jobrunner: %s started", name)
		if err := job(r.baseCtx); err != nil {
			log.WithError(err).Warnf("jobrunner: %s failed", name)
			return
		}
		log.Debugf("jobrunner: %s completed in %s", name, time.Since(started))
	}); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	log.Infof("jobrunner: %s scheduled with %s", name, schedule)
	return nil
}

func (r *Runner) Start() {
	r.cron.Start()
	log.Debug("jobrunner: started")
}

// Stop prevents new runs and waits for the running ones to complete.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.cancel()
	log.Debug("jobrunner: stopped")
}
