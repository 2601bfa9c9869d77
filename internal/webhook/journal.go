package webhook

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/phoexer/openproject/common/id"
	"github.com/phoexer/openproject/internal/model"
)

type JournalWriter interface {
	// Append returns created=false when a journal for the same delivery and
	// work package already exists.
	Append(ctx context.Context, journal *model.Journal) (created bool, err error)
}

type Recorder struct {
	writer JournalWriter
	newID  func() int64
}

type RecorderOption func(*Recorder)

// WithIDGenerator replaces the snowflake generator used for journal ids.
func WithIDGenerator(fn func() int64) RecorderOption {
	return func(r *Recorder) {
		r.newID = fn
	}
}

func NewRecorder(writer JournalWriter, opts ...RecorderOption) *Recorder {
	r := &Recorder{writer: writer, newID: id.New}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends the note for event to wp, attributed to actor.
func (r *Recorder) Record(ctx context.Context, wp *model.WorkPackage, actor *model.User, event Event) (bool, error) {
	journal := &model.Journal{
		ID:            r.newID(),
		WorkPackageID: wp.ID,
		UserID:        actor.ID,
		DeliveryID:    event.Meta().DeliveryID,
		Notes:         RenderNote(event),
	}

	created, err := r.writer.Append(ctx, journal)
	if err != nil {
		return false, fmt.Errorf("%w: work package %d: %w", ErrJournalWriteFailed, wp.ID, err)
	}
	return created, nil
}

// RenderNote renders the journal text for event. Provider supplied values are
// HTML escaped.
func RenderNote(event Event) string {
	m := event.Meta()
	pr := m.PullRequest

	var b strings.Builder
	switch event.Kind() {
	case KindCommented:
		fmt.Fprintf(&b, "**Referenced in PR:** %s referenced this work package in a comment on %s %s on %s.",
			link(m.Sender.URL, m.Sender.Login),
			link(m.SourceURL, fmt.Sprintf("Pull request %d", pr.Number)),
			html.EscapeString(pr.Title),
			link(m.Repository.URL, m.Repository.FullName),
		)
	default:
		fmt.Fprintf(&b, "**PR %s:** Pull request %d %s for %s has been %s by %s.",
			heading(event.Kind()),
			pr.Number,
			link(pr.URL, pr.Title),
			link(m.Repository.URL, m.Repository.FullName),
			event.Kind(),
			link(m.Sender.URL, m.Sender.Login),
		)
	}
	return b.String()
}

func heading(k Kind) string {
	switch k {
	case KindOpened:
		return "Opened"
	case KindClosed:
		return "Closed"
	case KindMerged:
		return "Merged"
	default:
		return string(k)
	}
}

func link(href, label string) string {
	if href == "" {
		return html.EscapeString(label)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(label))
}
