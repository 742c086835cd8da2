// Package testhelpers provides additional data builders for testing
package testhelpers

import (
	"time"

	"github.com/hostelcare/hostelcare/internal/database"
)

// ========================================
// Issue Builder
// ========================================

// IssueBuilder builds Issue instances for testing
type IssueBuilder struct {
	issue database.Issue
}

// NewIssueBuilder creates a new issue builder with defaults
func NewIssueBuilder() *IssueBuilder {
	return &IssueBuilder{
		issue: database.Issue{
			UUID:        "issue-test-1",
			Title:       "Leaking tap in bathroom",
			Description: "Water has been dripping since Monday morning",
			Category:    database.IssueCategoryPlumbing,
			Priority:    database.IssuePriorityMedium,
			Status:      database.IssueStatusReported,
			Hostel:      "North Wing",
			Block:       "B",
			Room:        "204",
			ReportedBy:  database.UserRef{ID: "user-1", Name: "Asha Verma"},
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}
}

// WithUUID sets the issue UUID
func (b *IssueBuilder) WithUUID(uuid string) *IssueBuilder {
	b.issue.UUID = uuid
	return b
}

// WithTitle sets the issue title
func (b *IssueBuilder) WithTitle(title string) *IssueBuilder {
	b.issue.Title = title
	return b
}

// WithDescription sets the description
func (b *IssueBuilder) WithDescription(desc string) *IssueBuilder {
	b.issue.Description = desc
	return b
}

// WithCategory sets the maintenance category
func (b *IssueBuilder) WithCategory(category database.IssueCategory) *IssueBuilder {
	b.issue.Category = category
	return b
}

// WithStatus sets the workflow status
func (b *IssueBuilder) WithStatus(status database.IssueStatus) *IssueBuilder {
	b.issue.Status = status
	return b
}

// WithLocation sets hostel, block, and room
func (b *IssueBuilder) WithLocation(hostel, block, room string) *IssueBuilder {
	b.issue.Hostel = hostel
	b.issue.Block = block
	b.issue.Room = room
	return b
}

// WithReporter sets the reporting student
func (b *IssueBuilder) WithReporter(id, name string) *IssueBuilder {
	b.issue.ReportedBy = database.UserRef{ID: id, Name: name}
	return b
}

// WithCreatedAt sets the reporting timestamp
func (b *IssueBuilder) WithCreatedAt(t time.Time) *IssueBuilder {
	b.issue.CreatedAt = t
	return b
}

// MergedInto marks the issue as a duplicate of the given primary
func (b *IssueBuilder) MergedInto(primaryUUID string) *IssueBuilder {
	b.issue.MergedInto = &primaryUUID
	return b
}

// WithMergedIssues marks the issue as a primary with the given duplicates
func (b *IssueBuilder) WithMergedIssues(uuids ...string) *IssueBuilder {
	b.issue.MergedIssues = append(b.issue.MergedIssues, uuids...)
	return b
}

// Build returns the constructed issue
func (b *IssueBuilder) Build() database.Issue {
	return b.issue
}

// ========================================
// User Builder
// ========================================

// UserBuilder builds User instances for testing
type UserBuilder struct {
	user database.User
}

// NewUserBuilder creates a new user builder with defaults
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: database.User{
			UUID:         "user-test-1",
			Name:         "Asha Verma",
			Email:        "asha@example.com",
			PasswordHash: "not-a-real-hash",
			Role:         database.UserRoleStudent,
			Hostel:       "North Wing",
			Block:        "B",
			Room:         "204",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
	}
}

// WithUUID sets the user UUID
func (b *UserBuilder) WithUUID(uuid string) *UserBuilder {
	b.user.UUID = uuid
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithRole sets the account role
func (b *UserBuilder) WithRole(role database.UserRole) *UserBuilder {
	b.user.Role = role
	return b
}

// Build returns the constructed user
func (b *UserBuilder) Build() database.User {
	return b.user
}

// ========================================
// Staff Builder
// ========================================

// StaffBuilder builds Staff instances for testing
type StaffBuilder struct {
	staff database.Staff
}

// NewStaffBuilder creates a new staff builder with defaults
func NewStaffBuilder() *StaffBuilder {
	return &StaffBuilder{
		staff: database.Staff{
			UUID:      "staff-test-1",
			Name:      "Raj Kumar",
			Email:     "raj@example.com",
			Specialty: database.IssueCategoryPlumbing,
			Hostel:    "North Wing",
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

// WithUUID sets the staff UUID
func (b *StaffBuilder) WithUUID(uuid string) *StaffBuilder {
	b.staff.UUID = uuid
	return b
}

// WithSpecialty sets the maintenance specialty
func (b *StaffBuilder) WithSpecialty(specialty database.StaffSpecialty) *StaffBuilder {
	b.staff.Specialty = specialty
	return b
}

// Inactive marks the staff member as inactive
func (b *StaffBuilder) Inactive() *StaffBuilder {
	b.staff.IsActive = false
	return b
}

// Build returns the constructed staff member
func (b *StaffBuilder) Build() database.Staff {
	return b.staff
}
