package reminder

import (
	"time"
)

// Settings option keys as stored in the settings repository. Each key is
// independently settable and deletable; an absent key falls back to its
// documented default.
const (
	KeyAge      = "reminder_age"
	KeyBasis    = "reminder_since"
	KeyTypes    = "reminder_what"
	KeyDay      = "reminder_when"
	KeyTime     = "reminder_time"
	KeyPrevTime = "reminder_prev_time"
	KeyLastRun  = "reminder_output"
)

// JobName identifies the recurring mailer job with the scheduler.
const JobName = "reminder_mailer"

// draftFetchLimit caps how many drafts are fetched per user in a single pass.
const draftFetchLimit = 99

const (
	BasisCreated  = "created"
	BasisModified = "modified"

	TypesPost = "post"
	TypesPage = "page"
	TypesBoth = "postpage"

	DayDaily = "Daily"
)

// Settings is the runtime-mutable reminder configuration, loaded once per
// operation from the settings store and passed in explicitly.
type Settings struct {
	AgeDays     int    // minimum draft age in days; 0 means no minimum
	AgeBasis    string // "created" or "modified"
	Types       string // "post", "page" or "postpage"
	TriggerDay  string // "Daily" or a weekday name
	TriggerTime string // one of the 24 on-the-hour values, e.g. "1am"
}

// PostTypes expands the stored type selector into the post types to scan.
func (s *Settings) PostTypes() []string {
	switch s.Types {
	case TypesPost:
		return []string{"post"}
	case TypesPage:
		return []string{"page"}
	default:
		return []string{"post", "page"}
	}
}

// CadenceLabel is the recurrence wording used in message text: "daily" when
// the job runs every day, otherwise "weekly". The literal weekday name is
// never echoed back to recipients.
func (s *Settings) CadenceLabel() string {
	if s.TriggerDay == DayDaily {
		return "daily"
	}
	return "weekly"
}

// TriggerWeekday returns the configured weekday and true, or false when the
// job runs daily.
func (s *Settings) TriggerWeekday() (time.Weekday, bool) {
	wd, ok := weekdays[s.TriggerDay]
	return wd, ok
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// Report is one user's rendered reminder. Reports are built fresh per pass
// and never persisted individually.
type Report struct {
	UserID     string
	Email      string
	Subject    string
	Body       string
	DraftCount int
}

// RunReport is the aggregate result of the most recent dispatch pass,
// persisted under KeyLastRun.
type RunReport struct {
	Timestamp time.Time `json:"timestamp"`
	Errors    int       `json:"errors"`
	Emails    string    `json:"emails"`
}

// Notifier delivers a rendered report to a recipient address.
type Notifier interface {
	Send(to, subject, body string) error
}

// JobScheduler is the external recurring-job engine the planner drives. The
// underlying recurrence is always daily; day-of-week filtering happens at
// invocation time in the runner.
type JobScheduler interface {
	Clear(name string)
	ScheduleDaily(name string, first time.Time) error
	NextFire(name string) (time.Time, bool)
}
