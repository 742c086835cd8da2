package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// StaffService manages maintenance staff records.
type StaffService struct {
	db *gorm.DB
}

// NewStaffService creates a new staff service.
func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db}
}

// ListStaff returns staff members, optionally filtered by specialty. Inactive
// staff are included so management can re-activate them.
func (s *StaffService) ListStaff(specialty database.StaffSpecialty) ([]database.Staff, error) {
	query := s.db.Order("name ASC")
	if specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}
	var staff []database.Staff
	if err := query.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// GetStaff returns a staff member by public id.
func (s *StaffService) GetStaff(staffID string) (*database.Staff, error) {
	var staff database.Staff
	if err := s.db.Where("uuid = ?", staffID).First(&staff).Error; err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("Staff member not found")
		}
		return nil, err
	}
	return &staff, nil
}

// CreateStaffInput holds the fields accepted when adding a staff member.
type CreateStaffInput struct {
	Name      string
	Email     string
	Phone     string
	Specialty database.StaffSpecialty
	Hostel    string
	Avatar    string
}

// CreateStaff adds a new staff member.
func (s *StaffService) CreateStaff(actor Actor, input CreateStaffInput) (*database.Staff, error) {
	staff := &database.Staff{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Specialty: input.Specialty,
		Hostel:    input.Hostel,
		Avatar:    input.Avatar,
		IsActive:  true,
	}
	if err := s.db.Create(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return staff, nil
}

// UpdateStaffInput holds the optional fields of a staff update.
type UpdateStaffInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Specialty *database.StaffSpecialty
	Hostel    *string
	Avatar    *string
	IsActive  *bool
}

// UpdateStaff applies the provided changes to a staff member.
func (s *StaffService) UpdateStaff(actor Actor, staffID string, input UpdateStaffInput) (*database.Staff, error) {
	staff, err := s.GetStaff(staffID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Specialty != nil {
		updates["specialty"] = *input.Specialty
	}
	if input.Hostel != nil {
		updates["hostel"] = *input.Hostel
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(staff).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update staff member: %w", err)
		}
		if err := s.db.Where("uuid = ?", staff.UUID).First(staff).Error; err != nil {
			return nil, err
		}
	}
	return staff, nil
}

// DeleteStaff removes a staff member.
func (s *StaffService) DeleteStaff(actor Actor, staffID string) error {
	staff, err := s.GetStaff(staffID)
	if err != nil {
		return err
	}
	return s.db.Delete(staff).Error
}
