package store

import (
	"path/filepath"
	"testing"
	"time"

	"teamup-app/internal/model"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "teamup.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return s
}

func TestSQLiteMigrations_Rerunnable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamup.db")
	if _, err := NewSQLiteStore(path); err != nil {
		t.Fatalf("first open: %v", err)
	}
	// Second open must see schema_migrations and apply nothing.
	if _, err := NewSQLiteStore(path); err != nil {
		t.Fatalf("second open: %v", err)
	}
}

func TestSQLiteUsers_RoundTrip(t *testing.T) {
	s := newSQLiteTestStore(t)

	created, err := s.CreateUser(model.User{
		FirstName:    "Marek",
		LastName:     "Sobczak",
		Email:        "marek.sobczak@example.com",
		PasswordHash: "x",
		Role:         model.RoleCoach,
	})
	assertEq(t, err, nil)

	got, ok := s.GetUser(created.ID)
	assertEq(t, ok, true)
	assertEq(t, got.Email, "marek.sobczak@example.com")
	assertEq(t, got.Role, model.RoleCoach)

	got, ok = s.GetUserByEmail("MAREK.SOBCZAK@example.com")
	assertEq(t, ok, true)
	assertEq(t, got.ID, created.ID)

	if _, err := s.CreateUser(model.User{Email: "marek.sobczak@example.com", Role: model.RolePlayer}); err == nil {
		t.Fatal("expected duplicate email error")
	}
}

func TestSQLiteSetConfirmation_Conditional(t *testing.T) {
	s := newSQLiteTestStore(t)
	created, err := s.CreateCompletion(model.Completion{
		MatchType:      model.PlayerToTeam,
		CoachID:        "coach-1",
		CoachConfirmed: true,
		PlayerName:     "Adrian Pawlak",
		TeamName:       "KS Orzel",
		Position:       "striker",
		AgeGroup:       "U15",
		League:         "district",
	})
	assertEq(t, err, nil)

	flipped, err := s.SetConfirmation(created.ID, model.RolePlayer, "player-1", time.Now())
	assertEq(t, err, nil)
	assertEq(t, flipped, true)

	flipped, err = s.SetConfirmation(created.ID, model.RolePlayer, "player-2", time.Now())
	assertEq(t, err, nil)
	assertEq(t, flipped, false)

	// Coach flag was set at creation, so that side cannot flip either.
	flipped, err = s.SetConfirmation(created.ID, model.RoleCoach, "coach-2", time.Now())
	assertEq(t, err, nil)
	assertEq(t, flipped, false)

	got, ok := s.GetCompletion(created.ID)
	assertEq(t, ok, true)
	assertEq(t, got.PlayerConfirmed, true)
	assertEq(t, got.PlayerID, "player-1")
	assertEq(t, got.CoachID, "coach-1")
}

func TestSQLiteMarkCompleted_Once(t *testing.T) {
	s := newSQLiteTestStore(t)
	created, err := s.CreateCompletion(model.Completion{
		MatchType:  model.ChildToTeam,
		ParentID:   "parent-1",
		PlayerName: "Jan Nowacki",
		TeamName:   "KS Orzel",
		Position:   "defender",
		AgeGroup:   "U10",
		League:     "district",
	})
	assertEq(t, err, nil)

	won, err := s.MarkCompleted(created.ID, time.Now())
	assertEq(t, err, nil)
	assertEq(t, won, true)

	won, err = s.MarkCompleted(created.ID, time.Now())
	assertEq(t, err, nil)
	assertEq(t, won, false)

	got, _ := s.GetCompletion(created.ID)
	assertEq(t, got.Status, model.CompletionConfirmed)
	if got.CompletedAt == nil {
		t.Fatal("expected completed_at to be stamped")
	}
}

func TestSQLiteUpdateStory_Partial(t *testing.T) {
	s := newSQLiteTestStore(t)
	created, err := s.CreateCompletion(model.Completion{
		MatchType:  model.PlayerToTeam,
		CoachID:    "coach-1",
		PlayerName: "Adrian Pawlak",
		TeamName:   "KS Orzel",
		Position:   "striker",
		AgeGroup:   "U15",
		League:     "district",
	})
	assertEq(t, err, nil)
	if _, err := s.MarkCompleted(created.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	story := "Signed after two trainings."
	rating := 4
	updated, err := s.UpdateStory(created.ID, model.StoryPatch{SuccessStory: &story, Rating: &rating}, time.Now())
	assertEq(t, err, nil)
	assertEq(t, updated.SuccessStory, story)
	assertEq(t, updated.Rating, 4)
	assertEq(t, updated.PublicStory, false)

	public := true
	updated, err = s.UpdateStory(created.ID, model.StoryPatch{PublicStory: &public}, time.Now())
	assertEq(t, err, nil)
	assertEq(t, updated.SuccessStory, story)
	assertEq(t, updated.Rating, 4)
	assertEq(t, updated.PublicStory, true)

	if _, err := s.UpdateStory("nope", model.StoryPatch{PublicStory: &public}, time.Now()); err == nil {
		t.Fatal("expected error for unknown completion")
	}
}

func TestSQLitePublicStories_FilterAndPaging(t *testing.T) {
	s := newSQLiteTestStore(t)

	makeStory := func(public bool, story string, completedAt time.Time) {
		c, err := s.CreateCompletion(model.Completion{
			MatchType:  model.PlayerToTeam,
			CoachID:    "coach-1",
			PlayerName: "Adrian Pawlak",
			TeamName:   "KS Orzel",
			Position:   "striker",
			AgeGroup:   "U15",
			League:     "district",
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.MarkCompleted(c.ID, completedAt); err != nil {
			t.Fatal(err)
		}
		if _, err := s.UpdateStory(c.ID, model.StoryPatch{SuccessStory: &story, PublicStory: &public}, completedAt); err != nil {
			t.Fatal(err)
		}
	}

	base := time.Now()
	makeStory(true, "oldest", base.Add(-3*time.Hour))
	makeStory(true, "newest", base.Add(-1*time.Hour))
	makeStory(false, "private", base)

	stories, total := s.ListPublicStories(10, 0)
	assertEq(t, total, 2)
	assertEq(t, len(stories), 2)
	assertEq(t, stories[0].SuccessStory, "newest")
	assertEq(t, stories[1].SuccessStory, "oldest")

	stories, total = s.ListPublicStories(1, 1)
	assertEq(t, total, 2)
	assertEq(t, len(stories), 1)
	assertEq(t, stories[0].SuccessStory, "oldest")
}

func TestSQLiteListings_MarksAreIdempotent(t *testing.T) {
	s := newSQLiteTestStore(t)
	listing, err := s.CreateListing(model.Listing{Kind: model.ListingVacancy, OwnerID: "coach-1", Title: "Striker wanted"})
	assertEq(t, err, nil)

	assertEq(t, s.MarkListingFilled(listing.ID), nil)
	assertEq(t, s.MarkListingFilled(listing.ID), nil)

	got, ok := s.GetListing(listing.ID)
	assertEq(t, ok, true)
	assertEq(t, got.Filled, true)
	assertEq(t, got.Active, false)

	if err := s.MarkListingInactive("nope"); err == nil {
		t.Fatal("expected error for unknown listing")
	}
}

func TestSQLiteListCompletionsByParticipant_EmptyID(t *testing.T) {
	s := newSQLiteTestStore(t)
	_, err := s.CreateCompletion(model.Completion{
		MatchType:  model.PlayerToTeam,
		CoachID:    "coach-1",
		PlayerName: "Adrian Pawlak",
		TeamName:   "KS Orzel",
		Position:   "striker",
		AgeGroup:   "U15",
		League:     "district",
	})
	assertEq(t, err, nil)

	assertEq(t, len(s.ListCompletionsByParticipant("coach-1")), 1)
	// An empty id must never match the record's empty player/parent slots.
	assertEq(t, len(s.ListCompletionsByParticipant("")), 0)
}
