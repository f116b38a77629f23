package social

import (
	"testing"

	"spacebook/internal/model"
)

func TestFilterKnown(t *testing.T) {
	results := []model.User{
		{ID: "1", FirstName: "Me"},
		{ID: "2", FirstName: "Friend"},
		{ID: "3", FirstName: "Pending"},
		{ID: "4", FirstName: "New"},
		{ID: "4", FirstName: "New"}, // duplicate row from the server
		{ID: "5", FirstName: "Other"},
	}
	friends := []model.User{{ID: "2"}}
	pending := []model.FriendRequest{{UserID: "3"}}

	got := FilterKnown(results, "1", friends, pending)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(got), got)
	}
	if got[0].ID != "4" || got[1].ID != "5" {
		t.Fatalf("wrong survivors or order: %+v", got)
	}
}

func TestFilterKnownEmptyInputs(t *testing.T) {
	got := FilterKnown(nil, "", nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
	results := []model.User{{ID: "9"}}
	got = FilterKnown(results, "", nil, nil)
	if len(got) != 1 || got[0].ID != "9" {
		t.Fatalf("expected passthrough, got %+v", got)
	}
}
