package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.User{},
		&database.Staff{},
		&database.Issue{},
		&database.MergeRecord{},
		&database.LostFoundItem{},
		&database.Feedback{},
		&database.Announcement{},
		&database.Thread{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testActor() Actor {
	return Actor{
		ID:     "user-1",
		Name:   "Asha Verma",
		Email:  "asha@example.com",
		Role:   database.UserRoleManagement,
		Hostel: "North Wing",
		Block:  "B",
		Room:   "204",
	}
}

func createIssue(t *testing.T, db *gorm.DB, uuid, title string) *database.Issue {
	t.Helper()
	issue := &database.Issue{
		UUID:        uuid,
		Title:       title,
		Description: "Description for " + title,
		Category:    database.IssueCategoryPlumbing,
		Priority:    database.IssuePriorityMedium,
		Status:      database.IssueStatusReported,
		Hostel:      "North Wing",
		Block:       "B",
		Room:        "204",
		ReportedBy:  database.UserRef{ID: "user-1", Name: "Asha Verma"},
	}
	if err := db.Create(issue).Error; err != nil {
		t.Fatalf("failed to create issue %s: %v", uuid, err)
	}
	return issue
}

func reloadIssue(t *testing.T, db *gorm.DB, uuid string) *database.Issue {
	t.Helper()
	issue, err := database.FindIssueByUUID(db, uuid)
	if err != nil {
		t.Fatalf("failed to reload issue %s: %v", uuid, err)
	}
	return issue
}

func TestMerge_LinksBothSides(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	createIssue(t, db, "dup-2", "Water leak near sink")

	primary, err := svc.Merge(testActor(), "primary-1", []string{"dup-1", "dup-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !primary.MergedIssues.Contains("dup-1") || !primary.MergedIssues.Contains("dup-2") {
		t.Errorf("expected primary to list both duplicates, got %v", primary.MergedIssues)
	}

	// Both sides of the linkage must be persisted.
	for _, id := range []string{"dup-1", "dup-2"} {
		dup := reloadIssue(t, db, id)
		if !dup.IsMerged() || *dup.MergedInto != "primary-1" {
			t.Errorf("expected %s merged into primary-1, got %v", id, dup.MergedInto)
		}
	}
	stored := reloadIssue(t, db, "primary-1")
	if len(stored.MergedIssues) != 2 {
		t.Errorf("expected 2 merged issues on primary, got %d", len(stored.MergedIssues))
	}
}

func TestMerge_WritesAuditRecords(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var records []database.MergeRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("failed to load merge records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 merge record, got %d", len(records))
	}
	if records[0].DuplicateUUID != "dup-1" || records[0].PrimaryUUID != "primary-1" {
		t.Errorf("unexpected record linkage: %+v", records[0])
	}
	if records[0].MergedBy != "user-1" {
		t.Errorf("expected merged_by user-1, got %s", records[0].MergedBy)
	}
}

func TestMerge_RejectsSelfMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "issue-1", "Broken light")

	_, err := svc.Merge(testActor(), "issue-1", []string{"issue-1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	issue := reloadIssue(t, db, "issue-1")
	if issue.IsMerged() || issue.IsPrimary() {
		t.Error("self-merge must leave the issue untouched")
	}
}

func TestMerge_RejectsAlreadyMergedDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "primary-2", "Flickering light")
	createIssue(t, db, "dup-1", "Tap is leaking")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}

	_, err := svc.Merge(testActor(), "primary-2", []string{"dup-1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	dup := reloadIssue(t, db, "dup-1")
	if *dup.MergedInto != "primary-1" {
		t.Errorf("duplicate must stay with its original primary, got %v", dup.MergedInto)
	}
}

func TestMerge_RejectsMergedPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	createIssue(t, db, "other-1", "Clogged drain")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("setup merge failed: %v", err)
	}

	// dup-1 is now merged; merging into it would create a chain.
	_, err := svc.Merge(testActor(), "dup-1", []string{"other-1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMerge_RejectsDuplicateThatIsPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	createIssue(t, db, "primary-2", "Flickering light")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("setup merge failed: %v", err)
	}

	// primary-1 already owns duplicates; folding it elsewhere would chain.
	_, err := svc.Merge(testActor(), "primary-2", []string{"primary-1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	p1 := reloadIssue(t, db, "primary-1")
	if p1.IsMerged() {
		t.Error("primary with duplicates must not become merged")
	}
}

func TestMerge_PartialBatchFailureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")

	_, err := svc.Merge(testActor(), "primary-1", []string{"dup-1", "missing-1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	primary := reloadIssue(t, db, "primary-1")
	if primary.IsPrimary() {
		t.Errorf("primary must be unchanged after failed batch, got %v", primary.MergedIssues)
	}
	dup := reloadIssue(t, db, "dup-1")
	if dup.IsMerged() {
		t.Error("valid duplicate must be unchanged after failed batch")
	}
}

func TestMerge_RequiresDuplicateIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")

	_, err := svc.Merge(testActor(), "primary-1", nil)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMerge_MissingPrimaryIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "dup-1", "Tap is leaking")

	_, err := svc.Merge(testActor(), "missing-1", []string{"dup-1"})
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMerge_RepeatedIDsCollapse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")

	primary, err := svc.Merge(testActor(), "primary-1", []string{"dup-1", "dup-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(primary.MergedIssues) != 1 {
		t.Errorf("expected duplicate list of 1, got %v", primary.MergedIssues)
	}
}

func TestUnmerge_ReversesMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	issue, err := svc.Unmerge(testActor(), "dup-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.IsMerged() {
		t.Error("unmerged issue must be standalone")
	}

	primary := reloadIssue(t, db, "primary-1")
	if primary.IsPrimary() {
		t.Errorf("primary must become standalone after last unmerge, got %v", primary.MergedIssues)
	}

	// The pair is mergeable again afterwards.
	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("re-merge after unmerge failed: %v", err)
	}
}

func TestUnmerge_NotMergedIssue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "issue-1", "Broken light")

	_, err := svc.Unmerge(testActor(), "issue-1")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnmerge_SurvivesDeletedPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")

	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	// Hard-delete the primary behind the service's back.
	if err := db.Where("uuid = ?", "primary-1").Delete(&database.Issue{}).Error; err != nil {
		t.Fatalf("failed to delete primary: %v", err)
	}

	issue, err := svc.Unmerge(testActor(), "dup-1")
	if err != nil {
		t.Fatalf("unmerge with missing primary must still succeed: %v", err)
	}
	if issue.IsMerged() {
		t.Error("duplicate-side link must be cleared")
	}
}

func TestCreateIssue_AutoMergesNearIdenticalReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Water leaking from bathroom tap")

	result, err := svc.CreateIssue(testActor(), CreateIssueInput{
		Title:       "Water leaking from bathroom tap",
		Description: "Description for Water leaking from bathroom tap",
		Category:    database.IssueCategoryPlumbing,
		Priority:    database.IssuePriorityMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.AutoMerged {
		t.Fatal("expected near-identical report to auto-merge")
	}
	if result.Issue.UUID != "primary-1" {
		t.Errorf("expected the primary to be returned, got %s", result.Issue.UUID)
	}
	if result.MergedNewIssue == nil || !result.MergedNewIssue.IsMerged() {
		t.Fatal("expected the new report to carry its merge link")
	}
	if result.SimilarityScore < 0.8 {
		t.Errorf("expected score >= 0.8, got %f", result.SimilarityScore)
	}
	if len(result.MatchReasons) == 0 {
		t.Error("expected match reasons to be recorded")
	}

	var records []database.MergeRecord
	db.Find(&records)
	if len(records) != 1 || records[0].MergedBy != MergedBySystem {
		t.Errorf("expected one system merge record, got %+v", records)
	}
}

func TestCreateIssue_DistinctReportStaysStandalone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Water leaking from bathroom tap")

	result, err := svc.CreateIssue(testActor(), CreateIssueInput{
		Title:       "Wifi router not working on second floor",
		Description: "No internet connectivity since yesterday evening",
		Category:    database.IssueCategoryInternet,
		Priority:    database.IssuePriorityHigh,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AutoMerged {
		t.Fatal("distinct report must not auto-merge")
	}
	if result.Issue.IsMerged() {
		t.Error("standalone report must have no merge link")
	}
}

func TestCreateIssue_DefaultsLocationFromActor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	result, err := svc.CreateIssue(testActor(), CreateIssueInput{
		Title:       "Cupboard hinge broken",
		Description: "Door hangs loose",
		Category:    database.IssueCategoryFurniture,
		Priority:    database.IssuePriorityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Issue.Hostel != "North Wing" || result.Issue.Block != "B" || result.Issue.Room != "204" {
		t.Errorf("expected location defaults from reporter, got %s/%s/%s",
			result.Issue.Hostel, result.Issue.Block, result.Issue.Room)
	}
}

func TestTryAutoMerge_SkipsConcurrentlyMergedPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	primary := createIssue(t, db, "primary-1", "Water leaking from bathroom tap")
	newIssue := createIssue(t, db, "new-1", "Water leaking from bathroom tap")

	// Simulate the candidate losing a race: it gets merged away between
	// scoring and the write.
	pool := []database.Issue{*primary}
	elsewhere := "elsewhere-1"
	if err := db.Model(primary).Update("merged_into", elsewhere).Error; err != nil {
		t.Fatalf("failed to pre-merge candidate: %v", err)
	}

	result, err := svc.TryAutoMerge(newIssue, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Merged {
		t.Fatal("auto-merge into a merged candidate would create a chain")
	}
	reloaded := reloadIssue(t, db, "new-1")
	if reloaded.IsMerged() {
		t.Error("new issue must stay standalone when the race is lost")
	}
}

func TestListIssues_HidesMergedByDefault(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	issues, err := svc.ListIssues(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].UUID != "primary-1" {
		t.Errorf("expected only the primary, got %d issues", len(issues))
	}

	all, err := svc.ListIssues(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both issues with includeMerged, got %d", len(all))
	}
}

func TestUpdateStatus_ResolvedRequiresProof(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "issue-1", "Broken light")

	_, err := svc.UpdateStatus(testActor(), "issue-1", database.IssueStatusResolved)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	proofs := database.Attachments{{Name: "fixed.jpg", URL: "/uploads/fixed.jpg", Type: database.AttachmentTypeImage}}
	if _, err := svc.SetResolutionProof(testActor(), "issue-1", proofs, "Replaced bulb"); err != nil {
		t.Fatalf("failed to set proof: %v", err)
	}

	issue, err := svc.UpdateStatus(testActor(), "issue-1", database.IssueStatusResolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.ResolvedAt == nil {
		t.Error("expected resolved_at to be stamped")
	}
	if issue.ResolvedBy.IsZero() {
		t.Error("expected resolved_by to be recorded")
	}
}

func TestReopen_OnlyReporterAndOnlyResolved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "issue-1", "Broken light")

	_, err := svc.Reopen(testActor(), "issue-1")
	if !IsValidation(err) {
		t.Fatalf("expected validation error for unresolved issue, got %v", err)
	}

	proofs := database.Attachments{{Name: "fixed.jpg", URL: "/uploads/fixed.jpg", Type: database.AttachmentTypeImage}}
	if _, err := svc.SetResolutionProof(testActor(), "issue-1", proofs, ""); err != nil {
		t.Fatalf("failed to set proof: %v", err)
	}
	if _, err := svc.UpdateStatus(testActor(), "issue-1", database.IssueStatusResolved); err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	stranger := testActor()
	stranger.ID = "user-2"
	if _, err := svc.Reopen(stranger, "issue-1"); !IsValidation(err) {
		t.Fatalf("expected validation error for non-reporter, got %v", err)
	}

	issue, err := svc.Reopen(testActor(), "issue-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Status != database.IssueStatusReported {
		t.Errorf("expected reported status, got %s", issue.Status)
	}
	if issue.ResolvedAt != nil {
		t.Error("expected resolved_at to be cleared")
	}
}

func TestDeleteIssue_CleansUpMergeReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if err := svc.DeleteIssue(testActor(), "primary-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := reloadIssue(t, db, "dup-1")
	if dup.IsMerged() {
		t.Error("duplicate must be unlinked when its primary is deleted")
	}
}

func TestDeleteIssue_RemovesFromPrimaryList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "primary-1", "Leaking tap")
	createIssue(t, db, "dup-1", "Tap is leaking")
	if _, err := svc.Merge(testActor(), "primary-1", []string{"dup-1"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if err := svc.DeleteIssue(testActor(), "dup-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	primary := reloadIssue(t, db, "primary-1")
	if primary.MergedIssues.Contains("dup-1") {
		t.Errorf("deleted duplicate must leave the primary's list, got %v", primary.MergedIssues)
	}
}

func TestAssignStaff_RequiresActiveStaff(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIssueService(db, nil)

	createIssue(t, db, "issue-1", "Leaking tap")
	db.Create(&database.Staff{UUID: "staff-1", Name: "Raj Kumar", Specialty: database.IssueCategoryPlumbing, IsActive: false})

	_, err := svc.AssignStaff(testActor(), "issue-1", "staff-1")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found for inactive staff, got %v", err)
	}

	db.Model(&database.Staff{}).Where("uuid = ?", "staff-1").Update("is_active", true)

	issue, err := svc.AssignStaff(testActor(), "issue-1", "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Status != database.IssueStatusAssigned {
		t.Errorf("expected assigned status, got %s", issue.Status)
	}
	if issue.AssignedTo.ID != "staff-1" {
		t.Errorf("expected staff-1 assigned, got %+v", issue.AssignedTo)
	}
}
