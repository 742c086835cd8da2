package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// LostFoundService manages the lost-and-found registry.
type LostFoundService struct {
	db *gorm.DB
}

// NewLostFoundService creates a new lost-and-found service.
func NewLostFoundService(db *gorm.DB) *LostFoundService {
	return &LostFoundService{db: db}
}

// ListItems returns lost-and-found items, newest first.
func (s *LostFoundService) ListItems() ([]database.LostFoundItem, error) {
	var items []database.LostFoundItem
	if err := s.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns a lost-and-found item by public id.
func (s *LostFoundService) GetItem(itemID string) (*database.LostFoundItem, error) {
	var item database.LostFoundItem
	if err := s.db.Where("uuid = ?", itemID).First(&item).Error; err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("Item not found")
		}
		return nil, err
	}
	return &item, nil
}

// ReportItemInput holds the fields accepted when reporting an item.
type ReportItemInput struct {
	Kind          database.LostFoundKind
	Name          string
	Description   string
	FoundLocation string
	Photo         database.Attachments
}

// ReportItem registers a lost or found item.
func (s *LostFoundService) ReportItem(actor Actor, input ReportItemInput) (*database.LostFoundItem, error) {
	item := &database.LostFoundItem{
		Kind:          input.Kind,
		Name:          input.Name,
		Description:   input.Description,
		FoundLocation: input.FoundLocation,
		Status:        database.LostFoundStatusPending,
		ReportedBy:    actor.Ref(),
		Photo:         input.Photo,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to report item: %w", err)
	}
	return item, nil
}

// RequestClaim records a claim request on a pending item.
func (s *LostFoundService) RequestClaim(actor Actor, itemID, contact, note string) (*database.LostFoundItem, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != database.LostFoundStatusPending {
		return nil, NewValidationError("Item is not available for claiming")
	}

	claim := database.ClaimRequest{
		UserID:      actor.ID,
		UserName:    actor.Name,
		UserEmail:   actor.Email,
		UserContact: contact,
		UserRoom:    actor.Room,
		RequestedAt: nowFunc(),
		Note:        note,
	}
	if err := s.db.Model(item).Update("claim_request", claim).Error; err != nil {
		return nil, fmt.Errorf("failed to record claim request: %w", err)
	}
	item.ClaimRequest = claim
	return item, nil
}

// ApproveClaim marks the item claimed by its pending claimant.
func (s *LostFoundService) ApproveClaim(actor Actor, itemID string) (*database.LostFoundItem, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.ClaimRequest.UserID == "" {
		return nil, NewValidationError("Item has no pending claim request")
	}

	now := nowFunc()
	claimedBy := database.UserRef{
		ID:    item.ClaimRequest.UserID,
		Name:  item.ClaimRequest.UserName,
		Email: item.ClaimRequest.UserEmail,
	}
	updates := map[string]interface{}{
		"status":     database.LostFoundStatusClaimed,
		"claimed_by": claimedBy,
		"claimed_at": now,
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to approve claim: %w", err)
	}
	item.Status = database.LostFoundStatusClaimed
	item.ClaimedBy = claimedBy
	item.ClaimedAt = &now
	return item, nil
}

// RejectClaim clears the pending claim and marks the item rejected.
func (s *LostFoundService) RejectClaim(actor Actor, itemID string) (*database.LostFoundItem, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.ClaimRequest.UserID == "" {
		return nil, NewValidationError("Item has no pending claim request")
	}

	updates := map[string]interface{}{
		"status":        database.LostFoundStatusRejected,
		"claim_request": database.ClaimRequest{},
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to reject claim: %w", err)
	}
	item.Status = database.LostFoundStatusRejected
	item.ClaimRequest = database.ClaimRequest{}
	return item, nil
}

// ResolveItem closes out an item (returned to owner or disposed of).
func (s *LostFoundService) ResolveItem(actor Actor, itemID string) (*database.LostFoundItem, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	updates := map[string]interface{}{
		"is_resolved": true,
		"resolved_by": actor.RoleRef(),
		"resolved_at": now,
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve item: %w", err)
	}
	item.IsResolved = true
	item.ResolvedBy = actor.RoleRef()
	item.ResolvedAt = &now
	return item, nil
}
