package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// ThreadService manages the discussion thread attached to each issue.
type ThreadService struct {
	db *gorm.DB
}

// NewThreadService creates a new thread service.
func NewThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{db: db}
}

// GetThread returns the thread for an issue, creating an empty one on first
// access.
func (s *ThreadService) GetThread(issueID string) (*database.Thread, error) {
	if _, err := database.FindIssueByUUID(s.db, issueID); err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("Issue not found")
		}
		return nil, err
	}

	var thread database.Thread
	err := s.db.Where("issue_uuid = ?", issueID).First(&thread).Error
	if database.IsRecordNotFound(err) {
		thread = database.Thread{IssueUUID: issueID, Comments: database.ThreadComments{}}
		if err := s.db.Create(&thread).Error; err != nil {
			return nil, fmt.Errorf("failed to create thread: %w", err)
		}
		return &thread, nil
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// AddComment appends a comment to an issue's thread.
func (s *ThreadService) AddComment(actor Actor, issueID, content string) (*database.Thread, error) {
	if content == "" {
		return nil, NewValidationError("Comment content is required")
	}

	thread, err := s.GetThread(issueID)
	if err != nil {
		return nil, err
	}

	comment := database.ThreadComment{
		ID:        uuid.New().String(),
		Author:    actor.Ref(),
		Content:   content,
		CreatedAt: nowFunc(),
	}
	thread.Comments = append(thread.Comments, comment)

	err = s.db.Model(&database.Thread{}).Where("uuid = ?", thread.UUID).
		Update("comments", thread.Comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return thread, nil
}
