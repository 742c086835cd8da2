package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// AnnouncementService manages hostel-wide announcements posted by staff.
type AnnouncementService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(db *gorm.DB, notifier Notifier) *AnnouncementService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AnnouncementService{db: db, notifier: notifier}
}

// CreateAnnouncementInput holds the fields for a new announcement. Empty
// Blocks means the announcement targets every block of the hostel.
type CreateAnnouncementInput struct {
	Title   string
	Message string
	Hostel  string
	Blocks  []string
}

// CreateAnnouncement posts a new announcement and broadcasts it to connected
// clients.
func (s *AnnouncementService) CreateAnnouncement(actor Actor, input CreateAnnouncementInput) (*database.Announcement, error) {
	if input.Title == "" {
		return nil, NewValidationError("Title is required")
	}
	if input.Message == "" {
		return nil, NewValidationError("Message is required")
	}

	hostel := input.Hostel
	if hostel == "" {
		hostel = actor.Hostel
	}

	announcement := &database.Announcement{
		Title:     input.Title,
		Message:   input.Message,
		Hostel:    hostel,
		Blocks:    input.Blocks,
		CreatedBy: actor.Ref(),
	}
	if err := s.db.Create(announcement).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	s.notifier.Broadcast(EventAnnouncementCreated, announcement)
	return announcement, nil
}

// ListAnnouncements returns announcements, newest first. A non-empty hostel
// filters to that hostel's announcements.
func (s *AnnouncementService) ListAnnouncements(hostel string) ([]database.Announcement, error) {
	query := s.db.Order("created_at DESC")
	if hostel != "" {
		query = query.Where("hostel = ?", hostel)
	}
	var announcements []database.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		return nil, err
	}
	return announcements, nil
}

// DeleteAnnouncement removes an announcement by UUID.
func (s *AnnouncementService) DeleteAnnouncement(id string) error {
	result := s.db.Where("uuid = ?", id).Delete(&database.Announcement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("Announcement not found")
	}
	return nil
}
