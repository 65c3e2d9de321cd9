package api

import (
	"time"

	"github.com/draftnag/draft-nag/app/database"
	"github.com/draftnag/draft-nag/app/reminder"
)

type RunnerInterface interface {
	Run(now time.Time, preview bool) (string, error)
	ForceRun(now time.Time) (string, error)
}

var _ RunnerInterface = (*reminder.Runner)(nil)

type PlannerInterface interface {
	EnsureScheduled(now time.Time) error
}

var _ PlannerInterface = (*reminder.Planner)(nil)

type Handler struct {
	runner   RunnerInterface
	planner  PlannerInterface
	store    *reminder.Store
	jobs     reminder.JobScheduler
	userRepo database.UserRepository
	postRepo database.PostRepository
	siteName string
	version  string
}
