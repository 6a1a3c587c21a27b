package model

import (
	"testing"
)

func TestAddImagesToEvents(t *testing.T) {
	placeholders := PlaceholderImages()

	tests := []struct {
		name     string
		events   []Event
		expected []string
	}{
		{
			name:     "0件のイベント",
			events:   []Event{},
			expected: []string{},
		},
		{
			name:     "ID 7は 7 mod 5 = 2 番目の代替画像",
			events:   []Event{{EventID: 7}},
			expected: []string{placeholders[2]},
		},
		{
			name: "画像があるイベントはそのまま",
			events: []Event{
				{EventID: 1, ImageURL: "https://cdn.example.com/a.png"},
				{EventID: 5},
				{EventID: 13},
			},
			expected: []string{"https://cdn.example.com/a.png", placeholders[0], placeholders[3]},
		},
		{
			name:     "負のIDでも範囲内の代替画像",
			events:   []Event{{EventID: -3}},
			expected: []string{placeholders[2]},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddImagesToEvents(tt.events)
			if len(got) != len(tt.expected) {
				t.Fatalf("AddImagesToEvents() len = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i].ImageURL != tt.expected[i] {
					t.Errorf("AddImagesToEvents()[%d].ImageURL = %v, want %v", i, got[i].ImageURL, tt.expected[i])
				}
			}
		})
	}
}

func TestAddImagesToEvents_DoesNotMutateInput(t *testing.T) {
	events := []Event{{EventID: 4}}

	_ = AddImagesToEvents(events)

	if events[0].ImageURL != "" {
		t.Errorf("input ImageURL = %v, want empty", events[0].ImageURL)
	}
}

func TestPlaceholderImage_IsDeterministic(t *testing.T) {
	n := int64(len(PlaceholderImages()))
	for id := int64(0); id < 3*n; id++ {
		if PlaceholderImage(id) != PlaceholderImage(id+n) {
			t.Errorf("PlaceholderImage(%d) != PlaceholderImage(%d)", id, id+n)
		}
	}
}

func TestAddImagesToWishlist(t *testing.T) {
	placeholders := PlaceholderImages()
	entries := []WishlistEntry{
		{EventID: 8},
		{EventID: 9, ImageURL: "kept.png"},
	}

	got := AddImagesToWishlist(entries)

	if got[0].ImageURL != placeholders[3] {
		t.Errorf("AddImagesToWishlist()[0].ImageURL = %v, want %v", got[0].ImageURL, placeholders[3])
	}
	if got[1].ImageURL != "kept.png" {
		t.Errorf("AddImagesToWishlist()[1].ImageURL = %v, want %v", got[1].ImageURL, "kept.png")
	}
}
