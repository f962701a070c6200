package handlers

import "testing"

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"7", 7},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		if got := parsePage(tt.in); got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Wireless Mouse", "mouse", true},
		{"Wireless Mouse", "MOUSE", true},
		{"Wireless Mouse", "keyboard", false},
		{"anything", "", true}, // empty search matches everything
		{"", "x", false},
	}
	for _, tt := range tests {
		if got := containsFold(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("containsFold(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	page1, totalPages := paginate(items, 1)
	if totalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", totalPages)
	}
	if len(page1) != adminPageSize || page1[0] != 0 || page1[9] != 9 {
		t.Fatalf("page 1 = %v", page1)
	}

	page3, _ := paginate(items, 3)
	if len(page3) != 5 || page3[0] != 20 {
		t.Fatalf("page 3 = %v", page3)
	}

	beyond, totalPages := paginate(items, 9)
	if len(beyond) != 0 || totalPages != 3 {
		t.Fatalf("page beyond end = %v (totalPages %d), want empty", beyond, totalPages)
	}
}

func TestPaginateEmpty(t *testing.T) {
	page, totalPages := paginate([]string{}, 1)
	if len(page) != 0 || totalPages != 1 {
		t.Fatalf("paginate(empty) = %v, %d; want empty slice and 1 page", page, totalPages)
	}
}
