package completion

import (
	"fmt"
	"strings"
	"time"

	"teamup-app/internal/model"
	"teamup-app/internal/store"
)

// Coordinator owns the completion record state machine: creation with the
// reporting party's flag pre-set, the counterpart's confirmation, and the
// post-confirmation story annotation. All mutations go through the store's
// conditional updates; the coordinator itself keeps no state.
type Coordinator struct {
	store     store.Store
	finalizer Finalizer
	now       func() time.Time
}

func NewCoordinator(st store.Store, finalizer Finalizer) *Coordinator {
	return &Coordinator{store: st, finalizer: finalizer, now: time.Now}
}

// CreateInput carries the caller-supplied fields for a new completion
// record. The snapshot fields are copied verbatim; they are not re-joined
// against live listings or profiles later.
type CreateInput struct {
	MatchType model.MatchType

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
}

type ConfirmResult struct {
	Status       model.CompletionStatus
	AllConfirmed bool
}

// Create persists a new pending record with exactly the creating actor's
// flag set. The counterpart's flag always starts false: one party can never
// attest both sides of a placement.
func (c *Coordinator) Create(actor model.Actor, in CreateInput) (model.Completion, error) {
	if in.MatchType != model.PlayerToTeam && in.MatchType != model.ChildToTeam {
		return model.Completion{}, fmt.Errorf("%w: unknown match type %q", ErrValidation, in.MatchType)
	}
	if !roleRequired(in.MatchType, actor.Role) {
		return model.Completion{}, fmt.Errorf("%w: role %s cannot report a %s completion", ErrUnauthorized, actor.Role, in.MatchType)
	}
	refs := 0
	for _, ref := range []string{in.VacancyID, in.AvailabilityID, in.ChildAvailabilityID} {
		if ref != "" {
			refs++
		}
	}
	if refs != 1 {
		return model.Completion{}, fmt.Errorf("%w: exactly one listing reference required, got %d", ErrValidation, refs)
	}
	snapshot := []struct {
		field string
		value string
	}{
		{"player_name", in.PlayerName},
		{"team_name", in.TeamName},
		{"position", in.Position},
		{"age_group", in.AgeGroup},
		{"league", in.League},
	}
	for _, f := range snapshot {
		if strings.TrimSpace(f.value) == "" {
			return model.Completion{}, fmt.Errorf("%w: %s is required", ErrValidation, f.field)
		}
	}
	if in.MatchType == model.PlayerToTeam && in.ParentID != "" {
		return model.Completion{}, fmt.Errorf("%w: parent_id is not valid for %s", ErrValidation, model.PlayerToTeam)
	}
	if in.MatchType == model.ChildToTeam && in.PlayerID != "" {
		return model.Completion{}, fmt.Errorf("%w: player_id is not valid for %s", ErrValidation, model.ChildToTeam)
	}

	completion := model.Completion{
		MatchType:           in.MatchType,
		VacancyID:           in.VacancyID,
		AvailabilityID:      in.AvailabilityID,
		ChildAvailabilityID: in.ChildAvailabilityID,
		CoachID:             in.CoachID,
		PlayerID:            in.PlayerID,
		ParentID:            in.ParentID,
		PlayerName:          in.PlayerName,
		TeamName:            in.TeamName,
		Position:            in.Position,
		AgeGroup:            in.AgeGroup,
		League:              in.League,
		StartDate:           in.StartDate,
		Status:              model.CompletionPending,
		CreatedAt:           c.now(),
	}
	// The creator occupies its own role's participant slot regardless of
	// what the request carried.
	switch actor.Role {
	case model.RoleCoach:
		completion.CoachID = actor.ID
		completion.CoachConfirmed = true
	case model.RolePlayer:
		completion.PlayerID = actor.ID
		completion.PlayerConfirmed = true
	case model.RoleParent:
		completion.ParentID = actor.ID
		completion.ParentConfirmed = true
	}

	created, err := c.store.CreateCompletion(completion)
	if err != nil {
		return model.Completion{}, fmt.Errorf("create completion: %w", err)
	}
	return created, nil
}

// Confirm records the counterpart's attestation. The flag flip and the
// pending-to-confirmed transition are both conditional updates; only the
// call that wins the status transition finalizes the linked listing, so
// finalize runs exactly once however many confirms race.
func (c *Coordinator) Confirm(id string, actor model.Actor) (ConfirmResult, error) {
	record, ok := c.store.GetCompletion(id)
	if !ok {
		return ConfirmResult{}, ErrNotFound
	}
	if !roleRequired(record.MatchType, actor.Role) {
		return ConfirmResult{}, fmt.Errorf("%w: role %s is not a required confirmer for %s", ErrUnauthorized, actor.Role, record.MatchType)
	}
	if stored := participantID(record, actor.Role); stored != "" && stored != actor.ID {
		return ConfirmResult{}, fmt.Errorf("%w: %s slot belongs to another participant", ErrUnauthorized, actor.Role)
	}

	flipped, err := c.store.SetConfirmation(id, actor.Role, actor.ID, c.now())
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("set confirmation: %w", err)
	}
	if !flipped {
		// The record exists (checked above), so zero rows means the flag
		// was already set.
		return ConfirmResult{}, fmt.Errorf("%w: %s already confirmed", ErrConflict, actor.Role)
	}

	record, ok = c.store.GetCompletion(id)
	if !ok {
		return ConfirmResult{}, ErrNotFound
	}
	if record.AllConfirmed() && record.Status == model.CompletionPending {
		won, err := c.store.MarkCompleted(id, c.now())
		if err != nil {
			return ConfirmResult{}, fmt.Errorf("mark completed: %w", err)
		}
		if won {
			if err := c.finalizer.Finalize(record); err != nil {
				return ConfirmResult{}, fmt.Errorf("finalize listing: %w", err)
			}
		}
	}

	final, ok := c.store.GetCompletion(id)
	if !ok {
		return ConfirmResult{}, ErrNotFound
	}
	return ConfirmResult{Status: final.Status, AllConfirmed: final.AllConfirmed()}, nil
}

// AddStory attaches the success story and rating to a confirmed record.
// Only provided fields are touched.
func (c *Coordinator) AddStory(id string, actor model.Actor, patch model.StoryPatch) (model.Completion, error) {
	record, ok := c.store.GetCompletion(id)
	if !ok {
		return model.Completion{}, ErrNotFound
	}
	if record.Status != model.CompletionConfirmed {
		return model.Completion{}, ErrNotReady
	}
	if !record.IsParticipant(actor.ID) {
		return model.Completion{}, fmt.Errorf("%w: not a participant of this completion", ErrUnauthorized)
	}
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return model.Completion{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	updated, err := c.store.UpdateStory(id, patch, c.now())
	if err != nil {
		return model.Completion{}, fmt.Errorf("update story: %w", err)
	}
	return updated, nil
}

// ListMine returns the actor's completion records, newest first.
func (c *Coordinator) ListMine(actor model.Actor) []model.Completion {
	return c.store.ListCompletionsByParticipant(actor.ID)
}

// PublicStories returns the shared success stories page plus the total
// count. No authorization: the data is public by definition.
func (c *Coordinator) PublicStories(limit, offset int) ([]model.Completion, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return c.store.ListPublicStories(limit, offset)
}

func roleRequired(t model.MatchType, role model.Role) bool {
	for _, r := range model.RequiredConfirmers(t) {
		if r == role {
			return true
		}
	}
	return false
}

func participantID(c model.Completion, role model.Role) string {
	switch role {
	case model.RoleCoach:
		return c.CoachID
	case model.RolePlayer:
		return c.PlayerID
	case model.RoleParent:
		return c.ParentID
	}
	return ""
}
