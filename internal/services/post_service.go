package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetPostByID(id string) (models.Post, error)
	GetRecentPosts(limit int) ([]models.Post, error)
	GetPostsByAuthor(authorID string) ([]models.Post, error)
	CreatePost(title, content, authorID string) (models.Post, error)
	UpdatePost(id, title, content string) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// PostService provides business logic for post management. DeletePost
// publishes a post.deleting event before the row is removed, so every
// subscriber observes the post while it still exists; a subscriber
// error aborts the deletion.
type PostService struct {
	db  *sql.DB
	bus events.Publisher
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, bus events.Publisher) *PostService {
	return &PostService{db: db, bus: bus}
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	var post models.Post
	row := s.db.QueryRow("SELECT id, title, content, author_id, created_at, updated_at FROM posts WHERE id = ?", id)
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, fmt.Errorf("post with ID %s not found", id)
		}
		return models.Post{}, err
	}
	return post, nil
}

// GetRecentPosts retrieves the most recently created posts.
func (s *PostService) GetRecentPosts(limit int) ([]models.Post, error) {
	rows, err := s.db.Query("SELECT id, title, content, author_id, created_at, updated_at FROM posts ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// GetPostsByAuthor retrieves all posts written by a single user.
func (s *PostService) GetPostsByAuthor(authorID string) ([]models.Post, error) {
	rows, err := s.db.Query("SELECT id, title, content, author_id, created_at, updated_at FROM posts WHERE author_id = ? ORDER BY created_at DESC", authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CreatePost creates a new post for the given author.
func (s *PostService) CreatePost(title, content, authorID string) (models.Post, error) {
	now := time.Now()
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare("INSERT INTO posts(id, title, content, author_id) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.Post{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(post.ID, post.Title, post.Content, post.AuthorID)
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// UpdatePost updates a post's title and content.
func (s *PostService) UpdatePost(id, title, content string) (models.Post, error) {
	stmt, err := s.db.Prepare("UPDATE posts SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	if err != nil {
		return models.Post{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(title, content, id)
	if err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(id)
}

// DeletePost removes a post. The post.deleting event fires first and an
// error from any of its subscribers leaves the row in place.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	post, err := s.GetPostByID(id)
	if err != nil {
		return err
	}

	if err := s.bus.Publish(ctx, events.PostDeleting{Post: post, At: time.Now()}); err != nil {
		return err
	}

	_, err = s.db.Exec("DELETE FROM posts WHERE id = ?", id)
	return err
}
