package model

import (
	"strings"
	"time"
)

type Role string
type MatchType string
type CompletionStatus string
type ListingKind string

const (
	RoleCoach  Role = "coach"
	RolePlayer Role = "player"
	RoleParent Role = "parent"

	PlayerToTeam MatchType = "player_to_team"
	ChildToTeam  MatchType = "child_to_team"

	CompletionPending   CompletionStatus = "pending"
	CompletionConfirmed CompletionStatus = "confirmed"

	ListingVacancy     ListingKind = "vacancy"
	ListingPlayerAvail ListingKind = "player_availability"
	ListingChildAvail  ListingKind = "child_availability"
)

// Actor is the authenticated party acting on a request. The web layer
// resolves it once from the session and passes it down explicitly.
type Actor struct {
	ID   string
	Role Role
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
}

func (u User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

// Listing is a team vacancy or a player/child availability posting. A
// completion record references at most one listing and deactivates it once
// both parties have confirmed.
type Listing struct {
	ID        string
	Kind      ListingKind
	OwnerID   string
	Title     string
	Filled    bool
	Active    bool
	CreatedAt time.Time
}

// Completion is the durable record of a placement: who joined which team,
// attested independently by both required parties. Snapshot fields are
// copied at creation and never re-joined against live profiles.
type Completion struct {
	ID        string
	MatchType MatchType

	// Linked listing references; at most one is set.
	VacancyID           string
	AvailabilityID      string
	ChildAvailabilityID string

	CoachID  string
	PlayerID string
	ParentID string

	PlayerName string
	TeamName   string
	Position   string
	AgeGroup   string
	League     string
	StartDate  *time.Time

	CoachConfirmed  bool
	PlayerConfirmed bool
	ParentConfirmed bool

	Status CompletionStatus

	SuccessStory string
	Rating       int
	Feedback     string
	PublicStory  bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// StoryPatch is a partial update of the post-confirmation annotation
// fields. Nil fields are left untouched.
type StoryPatch struct {
	SuccessStory *string
	Rating       *int
	Feedback     *string
	PublicStory  *bool
}

// RequiredConfirmers returns the pair of roles whose confirmation moves a
// record of the given type from pending to confirmed.
func RequiredConfirmers(t MatchType) []Role {
	switch t {
	case ChildToTeam:
		return []Role{RoleCoach, RoleParent}
	default:
		return []Role{RoleCoach, RolePlayer}
	}
}

// ConfirmedBy reports whether the given role has confirmed this record.
func (c Completion) ConfirmedBy(role Role) bool {
	switch role {
	case RoleCoach:
		return c.CoachConfirmed
	case RolePlayer:
		return c.PlayerConfirmed
	case RoleParent:
		return c.ParentConfirmed
	}
	return false
}

// AllConfirmed is the AND of the required confirmers' flags. Flags outside
// the required set never participate.
func (c Completion) AllConfirmed() bool {
	for _, role := range RequiredConfirmers(c.MatchType) {
		if !c.ConfirmedBy(role) {
			return false
		}
	}
	return true
}

// ListingRef returns the populated listing reference, if any.
func (c Completion) ListingRef() (ListingKind, string) {
	switch {
	case c.VacancyID != "":
		return ListingVacancy, c.VacancyID
	case c.AvailabilityID != "":
		return ListingPlayerAvail, c.AvailabilityID
	case c.ChildAvailabilityID != "":
		return ListingChildAvail, c.ChildAvailabilityID
	}
	return "", ""
}

// IsParticipant reports whether the given user id is one of the record's
// participants.
func (c Completion) IsParticipant(id string) bool {
	if id == "" {
		return false
	}
	return id == c.CoachID || id == c.PlayerID || id == c.ParentID
}
