package api

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/issues", 1, 25},
		{"explicit", "/issues?page=3&per_page=10", 3, 10},
		{"capped", "/issues?per_page=9999", 1, 100},
		{"garbage ignored", "/issues?page=abc&per_page=-5", 1, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := ParsePagination(r)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got page=%d per_page=%d, want %d/%d", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestPaginationMath(t *testing.T) {
	p := PaginationParams{Page: 3, PerPage: 10}
	if p.Offset() != 20 {
		t.Errorf("offset = %d, want 20", p.Offset())
	}
	if got := p.TotalPages(25); got != 3 {
		t.Errorf("total pages = %d, want 3", got)
	}
	if got := p.TotalPages(30); got != 3 {
		t.Errorf("total pages = %d, want 3", got)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, total := Slice(items, PaginationParams{Page: 2, PerPage: 2})
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0] != 3 {
		t.Errorf("page = %v, want [3 4]", page)
	}

	empty, _ := Slice(items, PaginationParams{Page: 9, PerPage: 2})
	if len(empty) != 0 {
		t.Errorf("expected empty page, got %v", empty)
	}
}
