package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/similarity"
)

// MergedBySystem marks merge audit rows produced by automatic duplicate
// detection rather than a staff member.
const MergedBySystem = "system"

// IssueService manages maintenance issues, including the duplicate-detection
// and merge-consistency engine.
type IssueService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewIssueService creates a new issue service.
func NewIssueService(db *gorm.DB, notifier Notifier) *IssueService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &IssueService{db: db, notifier: notifier}
}

// CreateIssueInput holds the fields accepted when reporting an issue.
// Attachments are metadata for already-uploaded files.
type CreateIssueInput struct {
	Title       string
	Description string
	Category    database.IssueCategory
	Priority    database.IssuePriority
	Hostel      string
	Block       string
	Room        string
	Attachments database.Attachments
}

// CreateIssueResult is the outcome of reporting an issue. When the new
// report was auto-merged, Issue is the primary (with its updated duplicate
// list) and MergedNewIssue carries the new report's own representation.
type CreateIssueResult struct {
	Issue           *database.Issue `json:"issue"`
	AutoMerged      bool            `json:"auto_merged"`
	MergedNewIssue  *database.Issue `json:"merged_new_issue,omitempty"`
	SimilarityScore float64         `json:"similarity_score,omitempty"`
	MatchReasons    []string        `json:"match_reasons,omitempty"`
}

// CreateIssue persists a new issue report and then checks it against all
// open, unmerged issues. If a candidate clears the auto-merge threshold the
// new report is folded into it immediately and the primary is returned
// instead of the new report.
func (s *IssueService) CreateIssue(actor Actor, input CreateIssueInput) (*CreateIssueResult, error) {
	hostel, block, room := input.Hostel, input.Block, input.Room
	if hostel == "" {
		hostel = actor.Hostel
	}
	if block == "" {
		block = actor.Block
	}
	if room == "" {
		room = actor.Room
	}

	issue := &database.Issue{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      database.IssueStatusReported,
		Hostel:      hostel,
		Block:       block,
		Room:        room,
		ReportedBy:  actor.Ref(),
		Attachments: input.Attachments,
	}
	if err := s.db.Create(issue).Error; err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	pool, err := database.FindOpenUnmergedIssues(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	auto, err := s.TryAutoMerge(issue, pool)
	if err != nil {
		return nil, err
	}
	if auto.Merged {
		return &CreateIssueResult{
			Issue:           auto.Primary,
			AutoMerged:      true,
			MergedNewIssue:  issue,
			SimilarityScore: auto.Score,
			MatchReasons:    auto.Reasons,
		}, nil
	}

	s.notifier.Broadcast(EventIssueCreated, issue)
	return &CreateIssueResult{Issue: issue}, nil
}

// AutoMergeResult reports whether an automatic merge happened and, if so,
// into which primary.
type AutoMergeResult struct {
	Merged  bool
	Primary *database.Issue
	Score   float64
	Reasons []string
}

// TryAutoMerge scores newIssue against the pool and, when the best match is
// at or above the auto-merge threshold, folds newIssue into that match. Both
// sides of the linkage are written in one store transaction; the primary's
// duplicate list is re-read inside the transaction and updated as a set
// union, so two racing auto-merges never overwrite each other's append. If
// the chosen primary was concurrently merged away, the auto-merge is
// abandoned rather than creating a chain.
func (s *IssueService) TryAutoMerge(newIssue *database.Issue, pool []database.Issue) (*AutoMergeResult, error) {
	results := similarity.FindSimilar(newIssue, pool)
	if len(results) == 0 || results[0].Score < similarity.AutoMergeThreshold {
		return &AutoMergeResult{Merged: false}, nil
	}
	top := results[0]

	var primary *database.Issue
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := database.FindIssueByUUID(tx, top.Issue.UUID)
		if err != nil {
			return err
		}
		if p.IsMerged() {
			// Lost a race: the match became a duplicate itself. Leave the
			// new issue standalone.
			return nil
		}

		if err := tx.Model(newIssue).Update("merged_into", p.UUID).Error; err != nil {
			return err
		}
		newIssue.MergedInto = &p.UUID

		if !p.MergedIssues.Contains(newIssue.UUID) {
			p.MergedIssues = append(p.MergedIssues, newIssue.UUID)
		}
		if err := tx.Model(p).Update("merged_issues", p.MergedIssues).Error; err != nil {
			return err
		}

		record := &database.MergeRecord{
			DuplicateUUID:   newIssue.UUID,
			PrimaryUUID:     p.UUID,
			SimilarityScore: top.Score,
			MatchReasons:    top.MatchReasons,
			MergedBy:        MergedBySystem,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		primary = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auto-merge failed: %w", err)
	}
	if primary == nil {
		return &AutoMergeResult{Merged: false}, nil
	}

	s.notifier.Broadcast(EventIssueAutoMerged, map[string]interface{}{
		"new_issue":        newIssue,
		"primary_issue":    primary,
		"similarity_score": top.Score,
		"match_reasons":    top.MatchReasons,
	})

	return &AutoMergeResult{
		Merged:  true,
		Primary: primary,
		Score:   top.Score,
		Reasons: top.MatchReasons,
	}, nil
}

// FindSimilarIssues returns candidates similar to the given issue, ordered by
// descending score. Read-only.
func (s *IssueService) FindSimilarIssues(issueID string) ([]similarity.Result, error) {
	target, err := database.FindIssueByUUID(s.db, issueID)
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("Issue not found")
		}
		return nil, err
	}

	var pool []database.Issue
	if err := s.db.Find(&pool).Error; err != nil {
		return nil, fmt.Errorf("failed to load issues: %w", err)
	}

	return similarity.FindSimilar(target, pool), nil
}

// Merge folds the given duplicate issues into the primary issue. All
// preconditions are checked before any write: the primary must exist and must
// not itself be merged, every duplicate must exist, must not already be
// merged elsewhere, must not be the primary itself, and must not have
// duplicates of its own. On any violation nothing is mutated.
func (s *IssueService) Merge(actor Actor, primaryID string, duplicateIDs []string) (*database.Issue, error) {
	if len(duplicateIDs) == 0 {
		return nil, NewValidationError("At least one duplicate issue id is required")
	}
	ids := dedupe(duplicateIDs)

	var primary *database.Issue
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := database.FindIssueByUUID(tx, primaryID)
		if err != nil {
			if database.IsRecordNotFound(err) {
				return NewNotFoundError("Primary issue not found")
			}
			return err
		}
		if p.IsMerged() {
			return NewValidationError("Cannot merge into an issue that is itself merged")
		}

		duplicates, err := database.FindIssuesByUUIDs(tx, ids)
		if err != nil {
			return err
		}
		if len(duplicates) != len(ids) {
			return NewValidationError("One or more duplicate issues not found")
		}

		for i := range duplicates {
			dup := &duplicates[i]
			if dup.UUID == primaryID {
				return NewValidationError("Cannot merge an issue into itself")
			}
			if dup.IsMerged() {
				return NewValidationError(fmt.Sprintf("Issue %s is already merged into another issue", dup.UUID))
			}
			if dup.IsPrimary() {
				return NewValidationError(fmt.Sprintf("Issue %s has duplicates of its own and cannot be merged", dup.UUID))
			}
		}

		for i := range duplicates {
			dup := &duplicates[i]
			if err := tx.Model(dup).Update("merged_into", p.UUID).Error; err != nil {
				return err
			}
			record := &database.MergeRecord{
				DuplicateUUID:   dup.UUID,
				PrimaryUUID:     p.UUID,
				SimilarityScore: 1.0,
				MergedBy:        actor.ID,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		for _, id := range ids {
			if !p.MergedIssues.Contains(id) {
				p.MergedIssues = append(p.MergedIssues, id)
			}
		}
		if err := tx.Model(p).Update("merged_issues", p.MergedIssues).Error; err != nil {
			return err
		}

		primary = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(EventIssueMerged, map[string]interface{}{
		"primary_issue":    primary,
		"merged_issue_ids": ids,
	})

	return primary, nil
}

// Unmerge detaches a previously merged issue from its primary, making it
// standalone again. A primary that no longer exists is a consistency warning,
// not a failure: the duplicate-side link is cleared regardless.
func (s *IssueService) Unmerge(actor Actor, issueID string) (*database.Issue, error) {
	var issue *database.Issue
	var previousPrimaryID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		i, err := database.FindIssueByUUID(tx, issueID)
		if err != nil {
			if database.IsRecordNotFound(err) {
				return NewNotFoundError("Issue not found")
			}
			return err
		}
		if !i.IsMerged() {
			return NewValidationError("Issue is not merged")
		}
		previousPrimaryID = *i.MergedInto

		primary, err := database.FindIssueByUUID(tx, previousPrimaryID)
		if err != nil {
			if !database.IsRecordNotFound(err) {
				return err
			}
			log.Printf("Warning: primary issue %s for duplicate %s no longer exists, skipping primary-side cleanup", previousPrimaryID, issueID)
		} else {
			remaining := make(database.StringSlice, 0, len(primary.MergedIssues))
			for _, id := range primary.MergedIssues {
				if id != issueID {
					remaining = append(remaining, id)
				}
			}
			if err := tx.Model(primary).Update("merged_issues", remaining).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(i).Update("merged_into", nil).Error; err != nil {
			return err
		}
		i.MergedInto = nil

		issue = i
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(EventIssueUnmerged, map[string]interface{}{
		"issue":               issue,
		"previous_primary_id": previousPrimaryID,
	})

	return issue, nil
}

// GetIssue returns a single issue by its public id.
func (s *IssueService) GetIssue(issueID string) (*database.Issue, error) {
	issue, err := database.FindIssueByUUID(s.db, issueID)
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("Issue not found")
		}
		return nil, err
	}
	return issue, nil
}

// ListIssues returns issues ordered newest first. Duplicates (issues folded
// into a primary) are hidden unless includeMerged is set.
func (s *IssueService) ListIssues(includeMerged bool) ([]database.Issue, error) {
	query := s.db.Order("created_at DESC")
	if !includeMerged {
		query = query.Where("merged_into IS NULL OR merged_into = ''")
	}
	var issues []database.Issue
	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateStatus transitions an issue's workflow status. Marking an issue
// resolved requires at least one resolution proof on record.
func (s *IssueService) UpdateStatus(actor Actor, issueID string, status database.IssueStatus) (*database.Issue, error) {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == database.IssueStatusResolved {
		if len(issue.ResolutionProofs) == 0 {
			return nil, NewValidationError("Cannot mark issue as resolved without uploading at least one proof file")
		}
		now := nowFunc()
		updates["resolved_at"] = now
		issue.ResolvedAt = &now
		if issue.ResolvedBy.IsZero() {
			updates["resolved_by"] = actor.Ref()
			issue.ResolvedBy = actor.Ref()
		}
	} else {
		updates["resolved_at"] = nil
		updates["resolved_by"] = database.UserRef{}
		issue.ResolvedAt = nil
		issue.ResolvedBy = database.UserRef{}
	}

	if err := s.db.Model(issue).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update issue status: %w", err)
	}
	issue.Status = status

	s.notifier.Broadcast(EventIssueUpdated, issue)
	return issue, nil
}

// AssignStaff assigns an active staff member to an issue and moves it to the
// assigned status.
func (s *IssueService) AssignStaff(actor Actor, issueID, staffID string) (*database.Issue, error) {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return nil, err
	}

	var staff database.Staff
	if err := s.db.Where("uuid = ?", staffID).First(&staff).Error; err != nil || !staff.IsActive {
		return nil, NewNotFoundError("Staff member not found")
	}

	updates := map[string]interface{}{
		"assigned_to": staff.Ref(),
		"status":      database.IssueStatusAssigned,
	}
	if err := s.db.Model(issue).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to assign issue: %w", err)
	}
	issue.AssignedTo = staff.Ref()
	issue.Status = database.IssueStatusAssigned

	s.notifier.Broadcast(EventIssueUpdated, issue)
	return issue, nil
}

// AddAdminRemark attaches a management note to an issue, replacing any
// previous remark.
func (s *IssueService) AddAdminRemark(actor Actor, issueID, remark string) (*database.Issue, error) {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return nil, err
	}

	note := database.AdminRemark{
		Content: remark,
		AddedBy: database.UserRef{ID: actor.ID, Name: actor.Name},
		AddedAt: nowFunc(),
	}
	if err := s.db.Model(issue).Update("admin_remark", note).Error; err != nil {
		return nil, fmt.Errorf("failed to add remark: %w", err)
	}
	issue.AdminRemark = note
	return issue, nil
}

// SetResolutionProof records proof files (and an optional remark) for an
// issue prior to resolving it.
func (s *IssueService) SetResolutionProof(actor Actor, issueID string, proofs database.Attachments, remark string) (*database.Issue, error) {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return nil, err
	}
	if len(proofs) == 0 {
		return nil, NewValidationError("At least one proof file is required")
	}

	now := nowFunc()
	for i := range proofs {
		proofs[i].UploadedAt = &now
	}

	updates := map[string]interface{}{"resolution_proofs": proofs}
	if remark != "" {
		updates["resolution_remark"] = remark
		issue.ResolutionRemark = remark
	}
	if err := s.db.Model(issue).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to set resolution proof: %w", err)
	}
	issue.ResolutionProofs = proofs
	return issue, nil
}

// Reopen returns a resolved issue to the reported status. Only the student
// who reported the issue may reopen it.
func (s *IssueService) Reopen(actor Actor, issueID string) (*database.Issue, error) {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != database.IssueStatusResolved {
		return nil, NewValidationError("Only resolved issues can be reopened")
	}
	if issue.ReportedBy.ID != actor.ID {
		return nil, NewValidationError("Only the student who reported this issue can reopen it")
	}

	updates := map[string]interface{}{
		"status":      database.IssueStatusReported,
		"resolved_at": nil,
		"resolved_by": database.UserRef{},
	}
	if err := s.db.Model(issue).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to reopen issue: %w", err)
	}
	issue.Status = database.IssueStatusReported
	issue.ResolvedAt = nil
	issue.ResolvedBy = database.UserRef{}

	s.notifier.Broadcast(EventIssueReopened, issue)
	return issue, nil
}

// DeleteIssue removes an issue along with its discussion thread and cleans up
// dangling merge references: duplicates pointing at the deleted issue become
// standalone, and the deleted id is removed from any primary's duplicate
// list.
func (s *IssueService) DeleteIssue(actor Actor, issueID string) error {
	issue, err := s.GetIssue(issueID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Unlink duplicates that were folded into this issue.
		if err := tx.Model(&database.Issue{}).
			Where("merged_into = ?", issue.UUID).
			Update("merged_into", nil).Error; err != nil {
			return err
		}

		// Remove this issue from its primary's duplicate list, if any.
		if issue.IsMerged() {
			primary, err := database.FindIssueByUUID(tx, *issue.MergedInto)
			if err == nil {
				remaining := make(database.StringSlice, 0, len(primary.MergedIssues))
				for _, id := range primary.MergedIssues {
					if id != issue.UUID {
						remaining = append(remaining, id)
					}
				}
				if err := tx.Model(primary).Update("merged_issues", remaining).Error; err != nil {
					return err
				}
			} else if !database.IsRecordNotFound(err) {
				return err
			}
		}

		if err := tx.Where("issue_uuid = ?", issue.UUID).Delete(&database.Thread{}).Error; err != nil {
			return err
		}
		return tx.Delete(issue).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	s.notifier.Broadcast(EventIssueDeleted, map[string]interface{}{"id": issue.UUID})
	return nil
}

// dedupe returns ids with duplicates removed, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
