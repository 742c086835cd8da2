package database

import "time"

// MergeRecord tracks when issues are merged together.
// This provides an audit trail for merge operations, whether automatic
// (duplicate detection at creation time) or manual (by management staff).
type MergeRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DuplicateUUID   string    `gorm:"size:36;not null;index" json:"duplicate_id"` // The issue that was folded away
	PrimaryUUID     string    `gorm:"size:36;not null;index" json:"primary_id"`   // The issue that absorbed the duplicate
	SimilarityScore float64   `gorm:"type:decimal(3,2)" json:"similarity_score"`  // Score that justified the merge (1.0 for manual merges)
	MatchReasons    StringSlice `gorm:"type:jsonb" json:"match_reasons"`
	MergedBy        string    `gorm:"type:varchar(50);not null" json:"merged_by"` // 'system' for auto-merges, or user UUID for manual merges
	CreatedAt       time.Time `json:"created_at"`
}

func (MergeRecord) TableName() string {
	return "merge_records"
}
