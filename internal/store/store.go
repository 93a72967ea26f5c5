package store

import (
	"time"

	"teamup-app/internal/model"
)

// Store is the single source of truth for participants, listings and
// completion records. SetConfirmation and MarkCompleted are conditional
// updates: the returned bool reports whether this call performed the
// transition, derived from the affected-row count. That bool is the only
// synchronization signal the confirmation workflow relies on.
type Store interface {
	ListUsers() []model.User
	GetUser(id string) (model.User, bool)
	GetUserByEmail(email string) (model.User, bool)
	CreateUser(user model.User) (model.User, error)

	ListListings() []model.Listing
	GetListing(id string) (model.Listing, bool)
	CreateListing(listing model.Listing) (model.Listing, error)
	// MarkListingFilled and MarkListingInactive are idempotent: repeating
	// them on an already-deactivated listing succeeds silently.
	MarkListingFilled(id string) error
	MarkListingInactive(id string) error

	CreateCompletion(completion model.Completion) (model.Completion, error)
	GetCompletion(id string) (model.Completion, bool)
	ListCompletionsByParticipant(userID string) []model.Completion
	// SetConfirmation flips the given role's flag false to true, claiming
	// the role's participant slot for actorID when the record was created
	// without one. It returns false when the flag was already set or the
	// record does not exist.
	SetConfirmation(id string, role model.Role, actorID string, now time.Time) (bool, error)
	// MarkCompleted transitions status pending to confirmed and stamps the
	// completion time. It returns false when another call already won.
	MarkCompleted(id string, now time.Time) (bool, error)
	UpdateStory(id string, patch model.StoryPatch, now time.Time) (model.Completion, error)
	// ListPublicStories returns confirmed records with a non-empty public
	// story, newest completion first, plus the total for pagination.
	ListPublicStories(limit, offset int) ([]model.Completion, int)
}
