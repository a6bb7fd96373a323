package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Page
	}{
		{"defaults", "/x", Page{Page: 1, PageSize: DefaultPageSize}},
		{"flat form", "/x?page=3&pageSize=10", Page{Page: 3, PageSize: 10}},
		{"bracket form", "/x?pagination%5Bpage%5D=2&pagination%5BpageSize%5D=5", Page{Page: 2, PageSize: 5}},
		{"bracket wins", "/x?page=9&pagination%5Bpage%5D=2", Page{Page: 2, PageSize: DefaultPageSize}},
		{"invalid ignored", "/x?page=-1&pageSize=abc", Page{Page: 1, PageSize: DefaultPageSize}},
		{"size capped", "/x?pageSize=1000", Page{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(httptest.NewRequest("GET", tt.target, nil))
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestSkipAndLimit(t *testing.T) {
	p := Page{Page: 3, PageSize: 10}
	if p.Skip() != 20 {
		t.Errorf("Skip() = %d, want 20", p.Skip())
	}
	if p.Limit() != 10 {
		t.Errorf("Limit() = %d, want 10", p.Limit())
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		total     int64
		size      int
		wantCount int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
	}
	for _, tt := range tests {
		m := NewMeta(Page{Page: 1, PageSize: tt.size}, tt.total)
		if m.PageCount != tt.wantCount {
			t.Errorf("NewMeta(total=%d,size=%d).PageCount = %d, want %d", tt.total, tt.size, m.PageCount, tt.wantCount)
		}
		if m.Total != tt.total {
			t.Errorf("Total = %d, want %d", m.Total, tt.total)
		}
	}
}
