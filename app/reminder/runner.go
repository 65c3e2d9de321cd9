package reminder

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/draftnag/draft-nag/app/database"
)

// Display formats for the last-run and status surfaces.
const (
	lastRunFormat = "Monday, January 2, 2006 3:04:05 pm"
	statusFormat  = "Monday, January 2, 2006 at 3:04 pm"
)

// Runner orchestrates a full dispatch pass over all users.
type Runner struct {
	userRepo database.UserRepository
	builder  *Builder
	notifier Notifier
	store    *Store
}

func NewRunner(userRepo database.UserRepository, builder *Builder, notifier Notifier, store *Store) *Runner {
	return &Runner{
		userRepo: userRepo,
		builder:  builder,
		notifier: notifier,
		store:    store,
	}
}

// Run executes a pass at the given instant. In preview mode the first user
// with a qualifying report wins: their rendered report is returned and
// nothing is sent or persisted. In dispatch mode the cadence gate applies:
// when a specific trigger day is configured and today is a different day,
// the pass does nothing and leaves no trace.
func (r *Runner) Run(now time.Time, preview bool) (string, error) {
	return r.run(now, preview, false)
}

// ForceRun executes a dispatch pass regardless of the configured trigger
// day. Intended for operator-initiated runs.
func (r *Runner) ForceRun(now time.Time) (string, error) {
	return r.run(now, false, true)
}

func (r *Runner) run(now time.Time, preview, force bool) (string, error) {
	settings, err := r.store.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}

	if !preview && !force {
		if day, ok := settings.TriggerWeekday(); ok && now.Weekday() != day {
			slog.Debug("Reminder pass skipped by cadence gate", "configured_day", settings.TriggerDay, "today", now.Weekday().String())
			return "", nil
		}
	}

	users, err := r.userRepo.ListUsers()
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}

	start := time.Now()
	errorCount := 0
	sentCount := 0
	var aggregate strings.Builder

	for _, user := range users {
		report, err := r.builder.Run(user, now, settings)
		if err != nil {
			slog.Error("Failed to build report", "user", user.Email, "error", err)
			if !preview {
				errorCount++
			}
			continue
		}
		if report == nil {
			continue
		}

		display := DisplayText(report)

		if preview {
			return display, nil
		}

		if err := r.notifier.Send(report.Email, report.Subject, report.Body); err != nil {
			slog.Warn("Failed to send reminder", "user", report.Email, "error", err)
			errorCount++
		} else {
			sentCount++
		}
		aggregate.WriteString(display)
	}

	if preview {
		return "", nil
	}

	runReport := &RunReport{
		Timestamp: now,
		Errors:    errorCount,
		Emails:    aggregate.String(),
	}
	if err := r.store.SaveRunReport(runReport); err != nil {
		return "", fmt.Errorf("failed to persist run report: %w", err)
	}

	slog.Info("Reminder pass completed",
		"duration", time.Since(start),
		"users", len(users),
		"sent", sentCount,
		"errors", errorCount)

	return "", nil
}

// DisplayText renders one report as the HTML-safe block used by the preview
// surface and the persisted aggregate.
func DisplayText(report *Report) string {
	var buf strings.Builder
	buf.WriteString("<p>To: ")
	buf.WriteString(html.EscapeString(report.Email))
	buf.WriteString("<br/>Subject: ")
	buf.WriteString(html.EscapeString(report.Subject))
	buf.WriteString("<br/><br/>")
	buf.WriteString(nl2br(html.EscapeString(report.Body)))
	buf.WriteString("</p>")
	return buf.String()
}

// FormatLastRun renders the persisted last-run report for display. A nil
// report means the mailer has never run.
func FormatLastRun(report *RunReport) string {
	if report == nil {
		return "Draft reminders have not yet run."
	}

	var buf strings.Builder
	timestamp := report.Timestamp.In(time.Local).Format(lastRunFormat)
	if report.Errors == 0 {
		fmt.Fprintf(&buf, "Draft reminders last ran at %s, successfully.", timestamp)
	} else {
		fmt.Fprintf(&buf, "Draft reminders last ran at %s, with %d errors.", timestamp, report.Errors)
	}
	buf.WriteString("<br/>")
	buf.WriteString(report.Emails)
	return buf.String()
}

// FormatStatus is the one-line status shown alongside the settings: when the
// job last ran and when it next fires.
func FormatStatus(report *RunReport, nextFire time.Time, scheduled bool) string {
	var buf strings.Builder

	if report == nil {
		buf.WriteString("Draft reminders have not yet run.")
	} else {
		timestamp := report.Timestamp.In(time.Local).Format(statusFormat)
		if report.Errors == 0 {
			fmt.Fprintf(&buf, "Draft reminders last ran at %s, successfully.", timestamp)
		} else {
			fmt.Fprintf(&buf, "Draft reminders last ran at %s, with errors.", timestamp)
		}
	}

	if scheduled && !nextFire.IsZero() {
		fmt.Fprintf(&buf, " It is next due to run on %s.", nextFire.In(time.Local).Format(statusFormat))
	}

	return buf.String()
}

func nl2br(text string) string {
	return strings.ReplaceAll(text, "\n", "<br/>")
}
