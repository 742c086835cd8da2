package similarity

import (
	"testing"
	"time"

	"github.com/hostelcare/hostelcare/internal/database"
)

func testIssue(title, description string, category database.IssueCategory, hostel, block, room string, createdAt time.Time) *database.Issue {
	return &database.Issue{
		UUID:        "issue-" + title,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    database.IssuePriorityMedium,
		Status:      database.IssueStatusReported,
		Hostel:      hostel,
		Block:       block,
		Room:        room,
		CreatedAt:   createdAt,
	}
}

func TestScore_IdenticalIssuesNearMaximal(t *testing.T) {
	now := time.Now()
	a := testIssue("Leaking tap in room 204", "Water dripping constantly from the bathroom tap", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now)
	b := testIssue("Leaking tap in room 204", "Water dripping constantly from the bathroom tap", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now)

	score, reasons := Score(a, b)
	if score < 0.95 {
		t.Errorf("expected near-maximal score for identical issues, got %f", score)
	}
	if score > 1.0 {
		t.Errorf("score must not exceed 1.0, got %f", score)
	}
	if len(reasons) != 5 {
		t.Errorf("expected all 5 match reasons for identical issues, got %d: %v", len(reasons), reasons)
	}
}

func TestScore_Bounds(t *testing.T) {
	now := time.Now()
	pairs := []struct {
		name string
		a, b *database.Issue
	}{
		{
			name: "completely different",
			a:    testIssue("Broken chair", "The desk chair collapsed", database.IssueCategoryFurniture, "Boys Hostel A", "B", "101", now),
			b:    testIssue("WiFi outage", "No internet on the third floor", database.IssueCategoryInternet, "Girls Hostel C", "D", "305", now.Add(-30*24*time.Hour)),
		},
		{
			name: "empty text",
			a:    testIssue("", "", database.IssueCategoryOther, "", "", "", now),
			b:    testIssue("", "", database.IssueCategoryOther, "", "", "", now),
		},
		{
			name: "partially similar",
			a:    testIssue("Leaking tap", "Tap drips", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now),
			b:    testIssue("Leaking pipe", "Pipe drips", database.IssueCategoryPlumbing, "Boys Hostel A", "C", "110", now.Add(-2*24*time.Hour)),
		},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			score, _ := Score(tc.a, tc.b)
			if score < 0 || score > 1 {
				t.Errorf("score out of bounds: %f", score)
			}
		})
	}
}

func TestScore_Symmetric(t *testing.T) {
	now := time.Now()
	a := testIssue("Leaking tap in room 204", "Constant dripping from the sink", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now)
	b := testIssue("Tap leaking in room 204", "The sink tap will not stop dripping", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now.Add(-2*time.Hour))

	scoreAB, _ := Score(a, b)
	scoreBA, _ := Score(b, a)
	if scoreAB != scoreBA {
		t.Errorf("score is not symmetric: Score(a,b)=%f, Score(b,a)=%f", scoreAB, scoreBA)
	}
}

func TestScore_Deterministic(t *testing.T) {
	now := time.Now()
	a := testIssue("Flickering light", "Tube light flickers at night", database.IssueCategoryElectrical, "Boys Hostel A", "B", "210", now)
	b := testIssue("Light flickering", "The tube light keeps flickering", database.IssueCategoryElectrical, "Boys Hostel A", "B", "210", now.Add(-time.Hour))

	first, _ := Score(a, b)
	for i := 0; i < 10; i++ {
		again, _ := Score(a, b)
		if again != first {
			t.Fatalf("score is not deterministic: %f then %f", first, again)
		}
	}
}

func TestScore_LeakingTapScenario(t *testing.T) {
	// Two reports of the same leak, two hours apart, must clear the
	// auto-merge threshold.
	now := time.Now()
	a := testIssue("Leaking tap in room 204", "The tap in the bathroom has been leaking since morning", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now)
	b := testIssue("Tap leaking in room 204", "The bathroom tap is leaking since this morning", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "204", now.Add(-2*time.Hour))

	score, reasons := Score(a, b)
	if score < AutoMergeThreshold {
		t.Errorf("expected score >= %f for near-identical reports, got %f", AutoMergeThreshold, score)
	}
	if len(reasons) == 0 {
		t.Error("expected match reasons for near-identical reports")
	}
}

func TestScore_CategoryReason(t *testing.T) {
	now := time.Now()
	a := testIssue("Clogged drain", "Shower drain backs up", database.IssueCategoryPlumbing, "Boys Hostel A", "B", "101", now)
	b := testIssue("No hot water", "Geyser not heating at all", database.IssueCategoryPlumbing, "Girls Hostel C", "D", "302", now)

	_, reasons := Score(a, b)
	found := false
	for _, r := range reasons {
		if r == "Same category: plumbing" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected category reason, got %v", reasons)
	}
}

func TestScore_DifferentCategoryNoBonus(t *testing.T) {
	now := time.Now()
	a := testIssue("Broken socket", "Wall socket sparks", database.IssueCategoryElectrical, "Boys Hostel A", "B", "101", now)
	b := testIssue("Broken socket", "Wall socket sparks", database.IssueCategoryFurniture, "Boys Hostel A", "B", "101", now)

	scoreDiff, _ := Score(a, b)

	b.Category = database.IssueCategoryElectrical
	scoreSame, _ := Score(a, b)

	delta := scoreSame - scoreDiff
	if delta < 0.149 || delta > 0.151 {
		t.Errorf("category match should contribute exactly its weight, got delta %f", delta)
	}
}

func TestTimeProximity_Tiers(t *testing.T) {
	cases := []struct {
		days float64
		want float64
	}{
		{0, 1.0},
		{0.5, 1.0},
		{1, 1.0},
		{2, 0.7},
		{3, 0.7},
		{5, 0.4},
		{7, 0.4},
		{8, 0.1},
		{30, 0.1},
	}
	for _, tc := range cases {
		if got := timeProximity(tc.days); got != tc.want {
			t.Errorf("timeProximity(%f) = %f, want %f", tc.days, got, tc.want)
		}
	}
}

func TestLocationSimilarity_SubWeights(t *testing.T) {
	now := time.Now()
	a := testIssue("x", "x", database.IssueCategoryOther, "Boys Hostel A", "B", "204", now)

	cases := []struct {
		name                string
		hostel, block, room string
		want                float64
	}{
		{"all match", "Boys Hostel A", "B", "204", 1.0},
		{"hostel only", "Boys Hostel A", "Z", "999", 0.4},
		{"hostel and block", "Boys Hostel A", "B", "999", 0.7},
		{"room only", "Other Hostel", "Z", "204", 0.3},
		{"nothing", "Other Hostel", "Z", "999", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testIssue("y", "y", database.IssueCategoryOther, tc.hostel, tc.block, tc.room, now)
			if got := locationSimilarity(a, b); got != tc.want {
				t.Errorf("locationSimilarity = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestTextSimilarity_CaseInsensitive(t *testing.T) {
	if textSimilarity("Leaking Tap", "leaking tap") != 1.0 {
		t.Error("expected case-insensitive comparison to treat equal strings as identical")
	}
}
