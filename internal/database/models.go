package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// StringSlice stores a list of strings as a JSONB array.
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Contains reports whether id is present in the slice.
func (s StringSlice) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// jsonbScan is the shared Scan implementation for embedded document types.
func jsonbScan(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, dst)
}

// UserRef embeds a denormalized reference to a user (reporter, resolver, author).
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u *UserRef) Scan(value interface{}) error { return jsonbScan(value, u) }

func (u UserRef) Value() (driver.Value, error) { return json.Marshal(u) }

// IsZero reports whether the reference is unset.
func (u UserRef) IsZero() bool { return u.ID == "" }

// StaffRef embeds a denormalized reference to an assigned staff member.
type StaffRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

func (s *StaffRef) Scan(value interface{}) error { return jsonbScan(value, s) }

func (s StaffRef) Value() (driver.Value, error) { return json.Marshal(s) }

// IsZero reports whether the reference is unset.
func (s StaffRef) IsZero() bool { return s.ID == "" }

// AttachmentType enumerates supported attachment media types.
type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeVideo AttachmentType = "video"
	AttachmentTypePDF   AttachmentType = "pdf"
)

// Attachment is metadata for an already-uploaded file. Upload and storage
// happen outside this service; only URLs and descriptors are persisted.
type Attachment struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       AttachmentType `json:"type"`
	URL        string         `json:"url"`
	Thumbnail  string         `json:"thumbnail,omitempty"`
	UploadedAt *time.Time     `json:"uploaded_at,omitempty"`
}

// Attachments stores a list of attachments as a JSONB array.
type Attachments []Attachment

func (a *Attachments) Scan(value interface{}) error { return jsonbScan(value, a) }

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]Attachment{})
	}
	return json.Marshal(a)
}

// AdminRemark is a single management note attached to an issue.
type AdminRemark struct {
	Content string    `json:"content"`
	AddedBy UserRef   `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

func (r *AdminRemark) Scan(value interface{}) error { return jsonbScan(value, r) }

func (r AdminRemark) Value() (driver.Value, error) { return json.Marshal(r) }

// UserRole represents the role of an account
type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleManagement UserRole = "management"
	UserRoleAdmin      UserRole = "admin"
)

// User represents a resident or management account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UUID         string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(32);not null;default:'student'" json:"role"`
	Hostel       string    `gorm:"type:varchar(128)" json:"hostel"`
	Block        string    `gorm:"type:varchar(64)" json:"block"`
	Room         string    `gorm:"type:varchar(64)" json:"room"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Avatar       string    `gorm:"type:text" json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	return nil
}

// Ref returns a denormalized reference for embedding in other records.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.UUID, Name: u.Name, Email: u.Email}
}

// StaffSpecialty matches the issue category enum so staff can be matched to issues
type StaffSpecialty = IssueCategory

// Staff represents a maintenance staff member
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UUID      string         `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string         `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Specialty StaffSpecialty `gorm:"type:varchar(32);not null;index" json:"specialty"`
	Hostel    string         `gorm:"type:varchar(128);not null" json:"hostel"`
	Avatar    string         `gorm:"type:text" json:"avatar,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	return nil
}

// Ref returns a denormalized reference for embedding in issues.
func (s *Staff) Ref() StaffRef {
	return StaffRef{ID: s.UUID, Name: s.Name, Phone: s.Phone}
}

// LostFoundKind distinguishes lost reports from found reports
type LostFoundKind string

const (
	LostFoundKindLost  LostFoundKind = "lost"
	LostFoundKindFound LostFoundKind = "found"
)

// LostFoundStatus represents the claim state of a lost-and-found item
type LostFoundStatus string

const (
	LostFoundStatusPending  LostFoundStatus = "pending"
	LostFoundStatusClaimed  LostFoundStatus = "claimed"
	LostFoundStatusRejected LostFoundStatus = "rejected"
)

// ClaimRequest is a pending claim on a lost-and-found item.
type ClaimRequest struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	UserContact string    `json:"user_contact,omitempty"`
	UserRoom    string    `json:"user_room,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	Note        string    `json:"note,omitempty"`
}

func (c *ClaimRequest) Scan(value interface{}) error { return jsonbScan(value, c) }

func (c ClaimRequest) Value() (driver.Value, error) { return json.Marshal(c) }

// LostFoundItem represents an item reported lost or found within a hostel
type LostFoundItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	UUID          string          `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Kind          LostFoundKind   `gorm:"type:varchar(16);not null;default:'found'" json:"kind"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	FoundLocation string          `gorm:"type:varchar(255);not null" json:"found_location"`
	Status        LostFoundStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	ReportedBy    UserRef         `gorm:"type:jsonb" json:"reported_by"`
	Photo         Attachments     `gorm:"type:jsonb" json:"photo,omitempty"`
	ClaimRequest  ClaimRequest    `gorm:"type:jsonb" json:"claim_request,omitempty"`
	ClaimedBy     UserRef         `gorm:"type:jsonb" json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time      `json:"claimed_at,omitempty"`
	IsResolved    bool            `gorm:"default:false" json:"is_resolved"`
	ResolvedBy    UserRef         `gorm:"type:jsonb" json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (l *LostFoundItem) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == "" {
		l.UUID = uuid.New().String()
	}
	return nil
}

// FeedbackCategory enumerates monthly feedback categories
type FeedbackCategory string

const (
	FeedbackCategoryHygiene       FeedbackCategory = "hygiene"
	FeedbackCategoryMessFood      FeedbackCategory = "mess_food"
	FeedbackCategoryWashrooms     FeedbackCategory = "washrooms"
	FeedbackCategoryRooms         FeedbackCategory = "rooms"
	FeedbackCategorySecurity      FeedbackCategory = "security"
	FeedbackCategoryStaffBehavior FeedbackCategory = "staff_behavior"
)

// Feedback is one student rating for one category in one month.
// The composite unique index enforces one submission per category per month.
type Feedback struct {
	ID           uint             `gorm:"primaryKey" json:"-"`
	UUID         string           `gorm:"uniqueIndex;size:36;not null" json:"id"`
	StudentID    string           `gorm:"size:36;not null;uniqueIndex:idx_feedback_once,priority:1" json:"student_id"`
	StudentName  string           `gorm:"type:varchar(255);not null" json:"student_name"`
	StudentEmail string           `gorm:"type:varchar(255);not null" json:"student_email"`
	Category     FeedbackCategory `gorm:"type:varchar(32);not null;uniqueIndex:idx_feedback_once,priority:2" json:"category"`
	Rating       int              `gorm:"not null" json:"rating"`
	Comment      string           `gorm:"type:text" json:"comment,omitempty"`
	Hostel       string           `gorm:"type:varchar(128);not null" json:"hostel"`
	Month        int              `gorm:"not null;uniqueIndex:idx_feedback_once,priority:3" json:"month"`
	Year         int              `gorm:"not null;uniqueIndex:idx_feedback_once,priority:4" json:"year"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID and submission timestamp
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.New().String()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now()
	}
	return nil
}

// Announcement is a broadcast message targeted at a hostel and optionally specific blocks
type Announcement struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	UUID      string      `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Title     string      `gorm:"type:varchar(255);not null" json:"title"`
	Message   string      `gorm:"type:text;not null" json:"message"`
	Hostel    string      `gorm:"type:varchar(128);not null;index" json:"hostel"`
	Blocks    StringSlice `gorm:"type:jsonb" json:"blocks"`
	CreatedBy UserRef     `gorm:"type:jsonb" json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}

// ThreadComment is one comment in an issue discussion thread.
type ThreadComment struct {
	ID        string    `json:"id"`
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadComments stores thread comments as a JSONB array.
type ThreadComments []ThreadComment

func (t *ThreadComments) Scan(value interface{}) error { return jsonbScan(value, t) }

func (t ThreadComments) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]ThreadComment{})
	}
	return json.Marshal(t)
}

// Thread is the discussion thread attached to an issue.
// Deleted together with its issue.
type Thread struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UUID      string         `gorm:"uniqueIndex;size:36;not null" json:"id"`
	IssueUUID string         `gorm:"uniqueIndex;size:36;not null" json:"issue_id"`
	Comments  ThreadComments `gorm:"type:jsonb" json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BeforeCreate hook to assign a UUID
func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}

// TableName overrides for explicit table naming
func (User) TableName() string {
	return "users"
}

func (Staff) TableName() string {
	return "staff"
}

func (LostFoundItem) TableName() string {
	return "lost_found_items"
}

func (Feedback) TableName() string {
	return "feedback"
}

func (Announcement) TableName() string {
	return "announcements"
}

func (Thread) TableName() string {
	return "threads"
}
