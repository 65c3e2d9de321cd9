package reminder

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/draftnag/draft-nag/app/database"
)

// MockUserRepository implements a simple mock for testing
type MockUserRepository struct {
	users []database.User
	err   error
}

func (m *MockUserRepository) ListUsers() ([]database.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *MockUserRepository) CreateUser(email, name string) (string, error) {
	return "mock-id", nil
}

func (m *MockUserRepository) GetUserCount() (int, error) {
	return len(m.users), nil
}

// MockNotifier records sent mail and can fail for selected recipients
type MockNotifier struct {
	sent    []string
	failFor map[string]bool
}

func (m *MockNotifier) Send(to, subject, body string) error {
	if m.failFor[to] {
		return fmt.Errorf("delivery to %s refused", to)
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestRunner(t *testing.T, users []database.User, posts []database.Post, settings *Settings) (*Runner, *MockNotifier, *Store) {
	t.Helper()

	store := NewStore(NewMemSettingsRepository())
	if err := store.Save(settings); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}

	builder := NewBuilder(&MockPostRepository{posts: posts}, testTemplates(t), "Example Blog", "https://blog.example.com")
	notifier := &MockNotifier{failFor: make(map[string]bool)}
	runner := NewRunner(&MockUserRepository{users: users}, builder, notifier, store)

	return runner, notifier, store
}

// Monday within the test calendar, at noon.
var monday = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func draftFor(userID, title string, createdAt time.Time) database.Post {
	return database.Post{
		ID: "post-" + userID + "-" + title, AuthorID: userID,
		Type: "post", Status: "draft",
		Title: title, Content: "a few draft words",
		CreatedAt: createdAt, UpdatedAt: createdAt,
	}
}

func TestRunner_DispatchPass(t *testing.T) {
	users := []database.User{
		{ID: "u1", Email: "first@example.com"},
		{ID: "u2", Email: "second@example.com"},
		{ID: "u3", Email: "empty@example.com"},
	}
	posts := []database.Post{
		draftFor("u1", "One", monday.Add(-48*time.Hour)),
		draftFor("u2", "Two", monday.Add(-24*time.Hour)),
	}

	settings := defaultTestSettings()
	settings.TriggerDay = DayDaily
	runner, notifier, store := newTestRunner(t, users, posts, settings)

	out, err := runner.Run(monday, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty output for a dispatch pass, got %q", out)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("Expected 2 emails sent, got %d", len(notifier.sent))
	}
	if notifier.sent[0] != "first@example.com" || notifier.sent[1] != "second@example.com" {
		t.Errorf("Expected stable user order, got %v", notifier.sent)
	}

	report, err := store.LoadRunReport()
	if err != nil {
		t.Fatalf("LoadRunReport failed: %v", err)
	}
	if report == nil {
		t.Fatal("Expected a persisted run report")
	}
	if !report.Timestamp.Equal(monday) {
		t.Errorf("Expected run timestamp %v, got %v", monday, report.Timestamp)
	}
	if report.Errors != 0 {
		t.Errorf("Expected 0 errors, got %d", report.Errors)
	}
	if !strings.Contains(report.Emails, "To: first@example.com") || !strings.Contains(report.Emails, "To: second@example.com") {
		t.Errorf("Expected aggregate to include both recipients, got:\n%s", report.Emails)
	}
	if strings.Contains(report.Emails, "empty@example.com") {
		t.Error("User without drafts must not appear in the aggregate")
	}
}

func TestRunner_DeliveryFailureDoesNotAbort(t *testing.T) {
	users := []database.User{
		{ID: "u1", Email: "first@example.com"},
		{ID: "u2", Email: "second@example.com"},
	}
	posts := []database.Post{
		draftFor("u1", "One", monday.Add(-48*time.Hour)),
		draftFor("u2", "Two", monday.Add(-24*time.Hour)),
	}

	settings := defaultTestSettings()
	settings.TriggerDay = DayDaily
	runner, notifier, store := newTestRunner(t, users, posts, settings)
	notifier.failFor["first@example.com"] = true

	if _, err := runner.Run(monday, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(notifier.sent) != 1 || notifier.sent[0] != "second@example.com" {
		t.Errorf("Expected the pass to continue past the failure, sent: %v", notifier.sent)
	}

	report, err := store.LoadRunReport()
	if err != nil {
		t.Fatalf("LoadRunReport failed: %v", err)
	}
	if report == nil {
		t.Fatal("Expected a persisted run report")
	}
	if report.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", report.Errors)
	}
	// The failed recipient's report still appears in the aggregate.
	if !strings.Contains(report.Emails, "To: first@example.com") {
		t.Errorf("Expected failed recipient in the aggregate, got:\n%s", report.Emails)
	}
}

func TestRunner_PreviewFirstReportWins(t *testing.T) {
	users := []database.User{
		{ID: "u1", Email: "empty@example.com"},
		{ID: "u2", Email: "second@example.com"},
		{ID: "u3", Email: "third@example.com"},
	}
	posts := []database.Post{
		draftFor("u2", "Two", monday.Add(-24*time.Hour)),
		draftFor("u3", "Three", monday.Add(-24*time.Hour)),
	}

	settings := defaultTestSettings()
	runner, notifier, store := newTestRunner(t, users, posts, settings)

	out, err := runner.Run(monday, true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// First user with a report wins; the third user is never shown.
	if !strings.Contains(out, "To: second@example.com") {
		t.Errorf("Expected preview for the first user with drafts, got:\n%s", out)
	}
	if strings.Contains(out, "third@example.com") {
		t.Error("Preview must stop at the first user with a report")
	}

	if len(notifier.sent) != 0 {
		t.Errorf("Preview must never send mail, sent: %v", notifier.sent)
	}

	report, err := store.LoadRunReport()
	if err != nil {
		t.Fatalf("LoadRunReport failed: %v", err)
	}
	if report != nil {
		t.Error("Preview must not persist a run report")
	}
}

func TestRunner_PreviewIgnoresCadenceGate(t *testing.T) {
	users := []database.User{{ID: "u1", Email: "first@example.com"}}
	posts := []database.Post{draftFor("u1", "One", monday.Add(-24*time.Hour))}

	settings := defaultTestSettings()
	settings.TriggerDay = "Wednesday" // not today
	runner, _, _ := newTestRunner(t, users, posts, settings)

	out, err := runner.Run(monday, true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out == "" {
		t.Error("Preview should render regardless of the configured trigger day")
	}
}

func TestRunner_CadenceGate(t *testing.T) {
	users := []database.User{{ID: "u1", Email: "first@example.com"}}
	posts := []database.Post{draftFor("u1", "One", monday.Add(-24*time.Hour))}

	settings := defaultTestSettings()
	settings.TriggerDay = "Wednesday"
	runner, notifier, store := newTestRunner(t, users, posts, settings)

	// Monday is not Wednesday: no dispatch, no trace.
	if _, err := runner.Run(monday, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Gated pass must not send mail, sent: %v", notifier.sent)
	}
	report, err := store.LoadRunReport()
	if err != nil {
		t.Fatalf("LoadRunReport failed: %v", err)
	}
	if report != nil {
		t.Error("Gated pass must not persist a run report")
	}

	// Two days later it is Wednesday and the pass proceeds.
	wednesday := monday.Add(48 * time.Hour)
	if _, err := runner.Run(wednesday, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("Expected dispatch on the configured day, sent: %v", notifier.sent)
	}
	report, _ = store.LoadRunReport()
	if report == nil {
		t.Error("Expected a persisted run report after the Wednesday pass")
	}
}

func TestRunner_ForceRunSkipsGate(t *testing.T) {
	users := []database.User{{ID: "u1", Email: "first@example.com"}}
	posts := []database.Post{draftFor("u1", "One", monday.Add(-24*time.Hour))}

	settings := defaultTestSettings()
	settings.TriggerDay = "Wednesday"
	runner, notifier, _ := newTestRunner(t, users, posts, settings)

	if _, err := runner.ForceRun(monday); err != nil {
		t.Fatalf("ForceRun failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("Expected forced dispatch despite the gate, sent: %v", notifier.sent)
	}
}

func TestDisplayText_EscapesAndBreaks(t *testing.T) {
	report := &Report{
		Email:   "writer@example.com",
		Subject: "[Blog] You have an outstanding draft",
		Body:    "Howdy!\n\n1. <b>Title</b>\n",
	}

	out := DisplayText(report)

	if !strings.HasPrefix(out, "<p>To: writer@example.com<br/>Subject: ") {
		t.Errorf("Unexpected display prefix: %q", out)
	}
	if strings.Contains(out, "<b>") {
		t.Error("Body HTML must be escaped in the display text")
	}
	if !strings.Contains(out, "Howdy!<br/><br/>1. &lt;b&gt;Title&lt;/b&gt;<br/>") {
		t.Errorf("Expected escaped body with <br/> breaks, got: %q", out)
	}
	if !strings.HasSuffix(out, "</p>") {
		t.Errorf("Expected closing paragraph, got: %q", out)
	}
}

func TestFormatLastRun(t *testing.T) {
	if got := FormatLastRun(nil); got != "Draft reminders have not yet run." {
		t.Errorf("Unexpected not-yet-run text: %q", got)
	}

	ts := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)

	clean := FormatLastRun(&RunReport{Timestamp: ts, Errors: 0, Emails: "<p>x</p>"})
	if !strings.Contains(clean, "successfully.") {
		t.Errorf("Expected success wording, got: %q", clean)
	}
	if !strings.HasSuffix(clean, "<br/><p>x</p>") {
		t.Errorf("Expected the aggregate appended, got: %q", clean)
	}

	failed := FormatLastRun(&RunReport{Timestamp: ts, Errors: 3})
	if !strings.Contains(failed, "with 3 errors.") {
		t.Errorf("Expected error wording, got: %q", failed)
	}
}

func TestFormatStatus(t *testing.T) {
	next := time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)

	notRun := FormatStatus(nil, next, true)
	if !strings.Contains(notRun, "have not yet run.") || !strings.Contains(notRun, "next due to run on") {
		t.Errorf("Unexpected status: %q", notRun)
	}

	ts := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	ran := FormatStatus(&RunReport{Timestamp: ts}, time.Time{}, false)
	if !strings.Contains(ran, "successfully.") || strings.Contains(ran, "next due") {
		t.Errorf("Unexpected status: %q", ran)
	}
}
