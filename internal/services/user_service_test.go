package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/avenside/inkpost-be/internal/database"
	"github.com/avenside/inkpost-be/internal/events"
)

//
// --- Helpers ---
//

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// recordingBus captures published events; it can optionally fail every
// Publish to exercise the propagation contract.
type recordingBus struct {
	published []events.Event
	err       error
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, e)
	return nil
}

//
// --- Tests ---
//

func TestCreateUserPublishesCreatedEvent(t *testing.T) {
	db := newTestDB(t)
	bus := &recordingBus{}
	svc := NewUserService(db, bus)

	user, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked out of CreateUser")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	saved, ok := bus.published[0].(events.UserSaved)
	if !ok {
		t.Fatalf("expected UserSaved, got %T", bus.published[0])
	}
	if !saved.Created {
		t.Error("expected Created=true for an insert")
	}
	if saved.User.Username != "alice" || saved.User.Email != "alice@example.com" {
		t.Errorf("event carries wrong user: %+v", saved.User)
	}
}

func TestUpdateUserPublishesNonCreatedEvent(t *testing.T) {
	db := newTestDB(t)
	bus := &recordingBus{}
	svc := NewUserService(db, bus)

	user, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	updated, err := svc.UpdateUser(context.Background(), user.ID, "alicia", "alicia@example.com")
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Username != "alicia" {
		t.Errorf("expected updated username, got %q", updated.Username)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.published))
	}
	saved, ok := bus.published[1].(events.UserSaved)
	if !ok {
		t.Fatalf("expected UserSaved, got %T", bus.published[1])
	}
	if saved.Created {
		t.Error("expected Created=false for an update")
	}
}

func TestCreateUserSubscriberFailureSurfacesWithRowWritten(t *testing.T) {
	db := newTestDB(t)
	sentinel := errors.New("welcome mail failed")
	svc := NewUserService(db, &recordingBus{err: sentinel})

	_, err := svc.CreateUser(context.Background(), "bob", "bob@example.com", "s3cretpass")
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected subscriber error to surface, got %v", err)
	}

	// The save itself precedes dispatch, so the row stays.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "bob@example.com").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected user row to remain, found %d rows", count)
	}
}

func TestDeleteUserAnnouncesEachPost(t *testing.T) {
	db := newTestDB(t)
	bus := events.NewBus()
	userSvc := NewUserService(db, bus)
	postSvc := NewPostService(db, bus)

	user, err := userSvc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	for _, title := range []string{"first", "second"} {
		if _, err := postSvc.CreatePost(title, "", user.ID); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}

	// Each of the user's posts must be announced while its row still
	// exists, even though the rows themselves go via the cascade.
	titles := map[string]int{}
	bus.Subscribe(events.TopicPostDeleting, func(ctx context.Context, e events.Event) error {
		post := e.(events.PostDeleting).Post
		var present int
		if err := db.QueryRow("SELECT COUNT(*) FROM posts WHERE id = ?", post.ID).Scan(&present); err != nil {
			return err
		}
		if present != 1 {
			t.Errorf("post %q announced after its row was gone", post.Title)
		}
		titles[post.Title]++
		return nil
	})

	if err := userSvc.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if len(titles) != 2 || titles["first"] != 1 || titles["second"] != 1 {
		t.Fatalf("expected one post.deleting per post, got %v", titles)
	}

	var remaining int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts WHERE author_id = ?", user.ID).Scan(&remaining); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cascade to remove posts, %d left", remaining)
	}
	if _, err := userSvc.GetUserByID(user.ID); err == nil {
		t.Fatal("user row survived DeleteUser")
	}
}

func TestDeleteUserAbortsOnSubscriberError(t *testing.T) {
	db := newTestDB(t)
	setupBus := &recordingBus{}
	userSvc := NewUserService(db, setupBus)
	postSvc := NewPostService(db, setupBus)

	user, err := userSvc.CreateUser(context.Background(), "bob", "bob@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := postSvc.CreatePost("kept", "", user.ID); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	sentinel := errors.New("subscriber refused")
	failing := NewUserService(db, &recordingBus{err: sentinel})
	if err := failing.DeleteUser(context.Background(), user.ID); !errors.Is(err, sentinel) {
		t.Fatalf("expected subscriber error, got %v", err)
	}

	if _, err := userSvc.GetUserByID(user.ID); err != nil {
		t.Fatalf("user should survive an aborted deletion: %v", err)
	}
	var remaining int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts WHERE author_id = ?", user.ID).Scan(&remaining); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("posts should survive an aborted deletion, %d left", remaining)
	}
}

func TestAuthenticateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, &recordingBus{})

	if _, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := svc.AuthenticateUser("alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("AuthenticateUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user %q", user.Username)
	}

	if _, err := svc.AuthenticateUser("alice@example.com", "wrongpass"); err == nil {
		t.Fatal("expected authentication failure for wrong password")
	}
}

func TestUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, &recordingBus{})

	user, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := svc.UpdatePassword(user.ID, "wrongpass", "newpassword"); err == nil {
		t.Fatal("expected rejection with wrong current password")
	}

	if err := svc.UpdatePassword(user.ID, "s3cretpass", "newpassword"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	if _, err := svc.AuthenticateUser("alice@example.com", "newpassword"); err != nil {
		t.Fatalf("authentication with new password failed: %v", err)
	}
}
