package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/avenside/inkpost-be/internal/models"
)

// ActivityServiceProvider defines the interface for the activity log.
type ActivityServiceProvider interface {
	RecordActivity(activityType, level, message string, subjectID *string) error
	GetRecentActivity(limit int) ([]models.Event, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// ActivityService persists activity entries to the database.
type ActivityService struct {
	db *sql.DB
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{db: db}
}

// RecordActivity writes a new activity entry.
func (s *ActivityService) RecordActivity(activityType, level, message string, subjectID *string) error {
	entry := models.Event{
		ID:        uuid.New().String(),
		Type:      activityType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, subject_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(entry.ID, entry.Type, entry.Level, entry.Message, entry.SubjectID)
	return err
}

// GetRecentActivity retrieves the most recent activity entries.
func (s *ActivityService) GetRecentActivity(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, subject_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Event
	for rows.Next() {
		var entry models.Event
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.Level, &entry.Message, &entry.SubjectID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// PruneOlderThan deletes activity entries created before the cutoff and
// returns how many rows were removed.
func (s *ActivityService) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
