package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueCategory represents the maintenance category of an issue
type IssueCategory string

const (
	IssueCategoryPlumbing    IssueCategory = "plumbing"
	IssueCategoryElectrical  IssueCategory = "electrical"
	IssueCategoryInternet    IssueCategory = "internet"
	IssueCategoryCleanliness IssueCategory = "cleanliness"
	IssueCategoryFurniture   IssueCategory = "furniture"
	IssueCategorySecurity    IssueCategory = "security"
	IssueCategoryOther       IssueCategory = "other"
)

// IssuePriority represents the urgency of an issue
type IssuePriority string

const (
	IssuePriorityLow       IssuePriority = "low"
	IssuePriorityMedium    IssuePriority = "medium"
	IssuePriorityHigh      IssuePriority = "high"
	IssuePriorityEmergency IssuePriority = "emergency"
)

// IssueStatus represents the workflow status of an issue
type IssueStatus string

const (
	IssueStatusReported   IssueStatus = "reported"
	IssueStatusAssigned   IssueStatus = "assigned"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// OpenIssueStatuses are the statuses eligible for duplicate matching.
var OpenIssueStatuses = []IssueStatus{
	IssueStatusReported,
	IssueStatusAssigned,
	IssueStatusInProgress,
}

// Issue represents a reported maintenance issue.
//
// The merge linkage fields MergedInto and MergedIssues are owned by the
// duplicate-detection engine. MergedInto set means this issue is a duplicate
// folded into another; MergedIssues non-empty means this issue is a primary
// with duplicates folded into it. An issue is never both at once.
type Issue struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	UUID        string        `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Category    IssueCategory `gorm:"type:varchar(32);not null;index" json:"category"`
	Priority    IssuePriority `gorm:"type:varchar(16);not null" json:"priority"`
	Status      IssueStatus   `gorm:"type:varchar(32);not null;default:'reported';index" json:"status"`

	Hostel string `gorm:"type:varchar(128);not null" json:"hostel"`
	Block  string `gorm:"type:varchar(64)" json:"block"`
	Room   string `gorm:"type:varchar(64)" json:"room"`

	ReportedBy  UserRef     `gorm:"type:jsonb" json:"reported_by"`
	AssignedTo  StaffRef    `gorm:"type:jsonb" json:"assigned_to,omitempty"`
	AdminRemark AdminRemark `gorm:"type:jsonb" json:"admin_remark,omitempty"`
	Attachments Attachments `gorm:"type:jsonb" json:"attachments"`

	ResolutionProofs Attachments `gorm:"type:jsonb" json:"resolution_proofs,omitempty"`
	ResolutionRemark string      `gorm:"type:text" json:"resolution_remark,omitempty"`
	ResolvedBy       UserRef     `gorm:"type:jsonb" json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`

	// Merge linkage. MergedInto holds the UUID of the primary issue this
	// record was folded into; MergedIssues holds the UUIDs folded into this
	// record.
	MergedInto   *string     `gorm:"size:36;index" json:"merged_into,omitempty"`
	MergedIssues StringSlice `gorm:"type:jsonb" json:"merged_issues"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == "" {
		i.UUID = uuid.New().String()
	}
	return nil
}

func (Issue) TableName() string {
	return "issues"
}

// IsMerged reports whether this issue is a duplicate folded into another.
func (i *Issue) IsMerged() bool {
	return i.MergedInto != nil && *i.MergedInto != ""
}

// IsPrimary reports whether this issue has duplicates folded into it.
// Primary is derived state, never stored: a primary whose last duplicate is
// unmerged becomes standalone again with no extra transition.
func (i *Issue) IsPrimary() bool {
	return len(i.MergedIssues) > 0
}

// IsOpen reports whether the issue is still being worked on.
func (i *Issue) IsOpen() bool {
	return i.Status != IssueStatusResolved && i.Status != IssueStatusClosed
}
