package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/avenside/inkpost-be/internal/events"
)

// DeletionNotice writes a one-line notice for every post that is about
// to be deleted. It runs before the row is removed, so the post named in
// the line still exists when the line appears. Write failures on the
// diagnostic stream are ignored; the notice is best effort and must
// never block a deletion.
type DeletionNotice struct {
	out io.Writer
}

// NewDeletionNotice creates a DeletionNotice writing to out.
func NewDeletionNotice(out io.Writer) *DeletionNotice {
	return &DeletionNotice{out: out}
}

// Handle implements events.Handler for the post.deleting topic.
func (n *DeletionNotice) Handle(_ context.Context, event events.Event) error {
	deleting, ok := event.(events.PostDeleting)
	if !ok {
		return nil
	}
	fmt.Fprintf(n.out, "Post titled '%s' is about to be deleted.\n", deleting.Post.Title)
	return nil
}
