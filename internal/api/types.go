package api

import (
	"github.com/hostelcare/hostelcare/internal/database"
)

// Request bodies accepted by the REST API. Validation rules live in the
// struct tags; handlers run Validate before touching the services layer.

// SignupRequest registers a new account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Hostel   string `json:"hostel" validate:"max=128"`
	Block    string `json:"block" validate:"max=64"`
	Room     string `json:"room" validate:"max=64"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes the caller's own profile. Absent fields are
// left untouched.
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Hostel *string `json:"hostel,omitempty" validate:"omitempty,max=128"`
	Block  *string `json:"block,omitempty" validate:"omitempty,max=64"`
	Room   *string `json:"room,omitempty" validate:"omitempty,max=64"`
	Avatar *string `json:"avatar,omitempty"`
}

// AttachmentInput is file metadata supplied with a report.
type AttachmentInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Type      string `json:"type" validate:"required,oneof=image video pdf"`
	URL       string `json:"url" validate:"required"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ToAttachments converts the inputs to the storage representation.
func ToAttachments(inputs []AttachmentInput) database.Attachments {
	out := make(database.Attachments, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, database.Attachment{
			Name:      in.Name,
			Type:      database.AttachmentType(in.Type),
			URL:       in.URL,
			Thumbnail: in.Thumbnail,
		})
	}
	return out
}

// CreateIssueRequest reports a new maintenance issue.
type CreateIssueRequest struct {
	Title       string            `json:"title" validate:"required,min=5,max=255"`
	Description string            `json:"description" validate:"required,min=10"`
	Category    string            `json:"category" validate:"required,oneof=plumbing electrical internet cleanliness furniture security other"`
	Priority    string            `json:"priority" validate:"required,oneof=low medium high emergency"`
	Hostel      string            `json:"hostel,omitempty" validate:"max=128"`
	Block       string            `json:"block,omitempty" validate:"max=64"`
	Room        string            `json:"room,omitempty" validate:"max=64"`
	Attachments []AttachmentInput `json:"attachments,omitempty" validate:"dive"`
}

// MergeRequest folds duplicate issues into a primary.
type MergeRequest struct {
	DuplicateIDs []string `json:"duplicate_ids" validate:"required,min=1,dive,required"`
}

// UpdateStatusRequest transitions an issue's workflow status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reported assigned in-progress resolved closed"`
}

// AssignStaffRequest assigns a staff member to an issue.
type AssignStaffRequest struct {
	StaffID string `json:"staff_id" validate:"required"`
}

// AdminRemarkRequest attaches a management note to an issue.
type AdminRemarkRequest struct {
	Remark string `json:"remark" validate:"required,min=1"`
}

// ResolutionProofRequest records proof files ahead of resolving an issue.
type ResolutionProofRequest struct {
	Proofs []AttachmentInput `json:"proofs" validate:"required,min=1,dive"`
	Remark string            `json:"remark,omitempty"`
}

// ReportItemRequest registers a lost or found item.
type ReportItemRequest struct {
	Kind          string            `json:"kind" validate:"required,oneof=lost found"`
	Name          string            `json:"name" validate:"required,max=255"`
	Description   string            `json:"description,omitempty"`
	FoundLocation string            `json:"found_location" validate:"required,max=255"`
	Photo         []AttachmentInput `json:"photo,omitempty" validate:"dive"`
}

// ClaimRequest asks for a lost-and-found item to be handed over.
type ClaimRequest struct {
	Contact string `json:"contact,omitempty" validate:"max=32"`
	Note    string `json:"note,omitempty" validate:"max=500"`
}

// FeedbackRequest submits one monthly rating.
type FeedbackRequest struct {
	Category string `json:"category" validate:"required,oneof=hygiene mess_food washrooms rooms security staff_behavior"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment,omitempty" validate:"max=1000"`
	Hostel   string `json:"hostel,omitempty" validate:"max=128"`
}

// AnnouncementRequest posts a hostel-wide announcement.
type AnnouncementRequest struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Message string   `json:"message" validate:"required"`
	Hostel  string   `json:"hostel,omitempty" validate:"max=128"`
	Blocks  []string `json:"blocks,omitempty" validate:"dive,max=64"`
}

// StaffRequest creates a maintenance staff member.
type StaffRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"max=32"`
	Specialty string `json:"specialty" validate:"required,oneof=plumbing electrical internet cleanliness furniture security other"`
	Hostel    string `json:"hostel" validate:"required,max=128"`
}

// UpdateStaffRequest changes a staff member. Absent fields are left untouched.
type UpdateStaffRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,oneof=plumbing electrical internet cleanliness furniture security other"`
	Hostel    *string `json:"hostel,omitempty" validate:"omitempty,max=128"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// CommentRequest adds a comment to an issue's discussion thread.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// PaginationMeta contains pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse wraps a list response with pagination metadata.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// TokenResponse is returned after a successful login or signup.
type TokenResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}
