package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(ctx context.Context, username, email, password string) (models.User, error)
	UpdateUser(ctx context.Context, id, username, email string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, id string) error
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for user management. Create and
// Update publish a user.saved event after the row is persisted; a
// subscriber error is returned to the caller with the row already
// written.
type UserService struct {
	db  *sql.DB
	bus events.Publisher
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, bus events.Publisher) *UserService {
	return &UserService{db: db, bus: bus}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", id)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with email %s not found", email)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password, and announces
// the insert on the bus with Created set to true.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""

	if err := s.bus.Publish(ctx, events.UserSaved{User: user, Created: true, At: time.Now()}); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser updates a user's non-sensitive information and announces
// the save with Created set to false.
func (s *UserService) UpdateUser(ctx context.Context, id, username, email string) (models.User, error) {
	stmt, err := s.db.Prepare("UPDATE users SET username = ?, email = ? WHERE id = ?")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(username, email, id)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if err := s.bus.Publish(ctx, events.UserSaved{User: user, Created: false, At: time.Now()}); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdatePassword verifies the current password, then hashes and sets a new password for a user.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var user models.User
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	err := row.Scan(&user.PasswordHash)
	if err != nil {
		return fmt.Errorf("could not find user to update password")
	}

	// Check if the current password is correct
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id)
	return err
}

// DeleteUser removes a user from the database. Deleting a user also
// removes their posts, so post.deleting fires for each of them first;
// the foreign-key cascade then clears the rows. A subscriber error
// aborts the whole deletion, user row included.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	rows, err := s.db.Query("SELECT id, title, content, author_id, created_at, updated_at FROM posts WHERE author_id = ?", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if err := s.bus.Publish(ctx, events.PostDeleting{Post: post, At: time.Now()}); err != nil {
			return err
		}
	}

	_, err = s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
