package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// FeedbackService manages monthly hostel feedback submissions.
type FeedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// SubmitInput holds one feedback submission.
type SubmitInput struct {
	Category database.FeedbackCategory
	Rating   int
	Comment  string
	Hostel   string
}

// Submit records one rating for one category in the current month. A second
// submission for the same category in the same month is rejected.
func (s *FeedbackService) Submit(actor Actor, input SubmitInput) (*database.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, NewValidationError("Rating must be between 1 and 5")
	}

	now := nowFunc()
	month := int(now.Month())
	year := now.Year()

	var existing database.Feedback
	err := s.db.Where("student_id = ? AND category = ? AND month = ? AND year = ?",
		actor.ID, input.Category, month, year).First(&existing).Error
	if err == nil {
		return nil, NewValidationError("Feedback for this category has already been submitted this month")
	}

	hostel := input.Hostel
	if hostel == "" {
		hostel = actor.Hostel
	}

	feedback := &database.Feedback{
		StudentID:    actor.ID,
		StudentName:  actor.Name,
		StudentEmail: actor.Email,
		Category:     input.Category,
		Rating:       input.Rating,
		Comment:      input.Comment,
		Hostel:       hostel,
		Month:        month,
		Year:         year,
		SubmittedAt:  now,
	}
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to submit feedback: %w", err)
	}
	return feedback, nil
}

// ListForStudent returns all feedback submitted by the given student, newest
// first.
func (s *FeedbackService) ListForStudent(studentID string) ([]database.Feedback, error) {
	var feedback []database.Feedback
	err := s.db.Where("student_id = ?", studentID).
		Order("submitted_at DESC").Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListForMonth returns all feedback for a given month, newest first.
// Month and year of zero mean the current month.
func (s *FeedbackService) ListForMonth(month, year int) ([]database.Feedback, error) {
	if month == 0 || year == 0 {
		now := nowFunc()
		month = int(now.Month())
		year = now.Year()
	}
	var feedback []database.Feedback
	err := s.db.Where("month = ? AND year = ?", month, year).
		Order("submitted_at DESC").Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}
