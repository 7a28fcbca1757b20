package notify

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/models"
)

func TestDeletionNoticeFormat(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewBus()
	bus.Subscribe(events.TopicPostDeleting, NewDeletionNotice(&buf).Handle)

	post := models.Post{ID: "post-1", Title: "Hello World"}
	if err := bus.Publish(context.Background(), events.PostDeleting{Post: post, At: time.Now()}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	want := "Post titled 'Hello World' is about to be deleted.\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected notice %q, want %q", got, want)
	}
}

func TestDeletionNoticeOncePerEvent(t *testing.T) {
	var buf bytes.Buffer
	notice := NewDeletionNotice(&buf)

	event := events.PostDeleting{Post: models.Post{Title: "dup"}}
	if err := notice.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if err := notice.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if got := bytes.Count(buf.Bytes(), []byte("\n")); got != 2 {
		t.Fatalf("expected one line per event, got %d lines", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestDeletionNoticeIgnoresWriteErrors(t *testing.T) {
	notice := NewDeletionNotice(failingWriter{})

	err := notice.Handle(context.Background(), events.PostDeleting{Post: models.Post{Title: "doomed"}})
	if err != nil {
		t.Fatalf("write errors on the diagnostic stream should not surface, got %v", err)
	}
}

func TestDeletionNoticeIgnoresOtherEvents(t *testing.T) {
	var buf bytes.Buffer
	notice := NewDeletionNotice(&buf)

	if err := notice.Handle(context.Background(), events.UserSaved{Created: true}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for a user event, got %q", buf.String())
	}
}
