package events

import (
	"time"

	"github.com/avenside/inkpost-be/internal/models"
)

// Topic identifies a kind of lifecycle event on the bus.
type Topic string

const (
	// TopicUserSaved fires after a user row has been inserted or updated.
	TopicUserSaved Topic = "user.saved"
	// TopicPostDeleting fires before a post row is deleted.
	TopicPostDeleting Topic = "post.deleting"
)

// Event is the payload delivered to subscribed handlers.
type Event interface {
	Topic() Topic
}

// UserSaved is published after a user record is persisted. Created
// distinguishes an insert from an update.
type UserSaved struct {
	User    models.User
	Created bool
	At      time.Time
}

func (UserSaved) Topic() Topic { return TopicUserSaved }

// PostDeleting is published immediately before a post record is deleted.
type PostDeleting struct {
	Post models.Post
	At   time.Time
}

func (PostDeleting) Topic() Topic { return TopicPostDeleting }
