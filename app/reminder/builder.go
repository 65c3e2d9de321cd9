package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/draftnag/draft-nag/app/database"
)

// timestampFormat renders creation/modification dates at minute precision.
const timestampFormat = "2006-01-02 15:04"

// Builder assembles one user's reminder report.
type Builder struct {
	postRepo  database.PostRepository
	templates *Templates
	siteName  string
	baseURL   string
}

func NewBuilder(postRepo database.PostRepository, templates *Templates, siteName, baseURL string) *Builder {
	return &Builder{
		postRepo:  postRepo,
		templates: templates,
		siteName:  siteName,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Run builds the reminder report for a single user. It returns nil when the
// user has no qualifying drafts, which must suppress any email for them.
func (b *Builder) Run(user database.User, now time.Time, settings *Settings) (*Report, error) {
	drafts, err := b.postRepo.ListDrafts(user.ID, settings.PostTypes(), draftFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	count := 0
	var body strings.Builder

	for _, draft := range drafts {
		if !b.qualifies(draft, now, settings) {
			continue
		}
		count++

		modified := ""
		if !draft.UpdatedAt.Equal(draft.CreatedAt) {
			modified = " and last edited on " + draft.UpdatedAt.In(time.Local).Format(timestampFormat)
		}

		line, err := b.templates.RenderLine(LineData{
			Seq:      count,
			Title:    draft.Title,
			Link:     b.editLink(draft.ID),
			Words:    WordCount(draft.Content),
			Created:  draft.CreatedAt.In(time.Local).Format(timestampFormat),
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render draft line: %w", err)
		}
		body.WriteString(line)
	}

	if count == 0 {
		return nil, nil
	}

	header, err := b.templates.RenderHeader(settings.CadenceLabel(), count)
	if err != nil {
		return nil, fmt.Errorf("failed to render header: %w", err)
	}

	subject, err := b.templates.RenderSubject(b.siteName, count)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}

	return &Report{
		UserID:     user.ID,
		Email:      user.Email,
		Subject:    subject,
		Body:       header + body.String(),
		DraftCount: count,
	}, nil
}

// qualifies applies the age filter: with a zero threshold every draft
// qualifies, otherwise the configured basis timestamp must be at least the
// threshold number of days in the past.
func (b *Builder) qualifies(draft database.Post, now time.Time, settings *Settings) bool {
	if settings.AgeDays == 0 {
		return true
	}

	basis := draft.CreatedAt
	if settings.AgeBasis == BasisModified {
		basis = draft.UpdatedAt
	}

	cutoff := now.Add(-time.Duration(settings.AgeDays) * 24 * time.Hour)
	return !basis.After(cutoff)
}

func (b *Builder) editLink(postID string) string {
	return fmt.Sprintf("%s/posts/%s/edit", b.baseURL, postID)
}

// WordCount counts whitespace-delimited tokens over the raw body text. It
// deliberately does not strip or render HTML.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
