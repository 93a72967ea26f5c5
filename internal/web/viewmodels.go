package web

import (
	"time"

	"teamup-app/internal/model"
)

type userView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func newUserView(u model.User) userView {
	return userView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}

type listingView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Filled    bool      `json:"filled"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func newListingView(l model.Listing) listingView {
	return listingView{
		ID:        l.ID,
		Kind:      string(l.Kind),
		OwnerID:   l.OwnerID,
		Title:     l.Title,
		Filled:    l.Filled,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}

type completionView struct {
	ID                  string     `json:"id"`
	MatchType           string     `json:"match_type"`
	VacancyID           string     `json:"vacancy_id,omitempty"`
	AvailabilityID      string     `json:"availability_id,omitempty"`
	ChildAvailabilityID string     `json:"child_availability_id,omitempty"`
	CoachID             string     `json:"coach_id,omitempty"`
	PlayerID            string     `json:"player_id,omitempty"`
	ParentID            string     `json:"parent_id,omitempty"`
	PlayerName          string     `json:"player_name"`
	TeamName            string     `json:"team_name"`
	Position            string     `json:"position"`
	AgeGroup            string     `json:"age_group"`
	League              string     `json:"league"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	CoachConfirmed      bool       `json:"coach_confirmed"`
	PlayerConfirmed     bool       `json:"player_confirmed"`
	ParentConfirmed     bool       `json:"parent_confirmed"`
	Status              string     `json:"completion_status"`
	SuccessStory        string     `json:"success_story,omitempty"`
	Rating              int        `json:"rating,omitempty"`
	Feedback            string     `json:"feedback,omitempty"`
	PublicStory         bool       `json:"public_story"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

func newCompletionView(c model.Completion) completionView {
	return completionView{
		ID:                  c.ID,
		MatchType:           string(c.MatchType),
		VacancyID:           c.VacancyID,
		AvailabilityID:      c.AvailabilityID,
		ChildAvailabilityID: c.ChildAvailabilityID,
		CoachID:             c.CoachID,
		PlayerID:            c.PlayerID,
		ParentID:            c.ParentID,
		PlayerName:          c.PlayerName,
		TeamName:            c.TeamName,
		Position:            c.Position,
		AgeGroup:            c.AgeGroup,
		League:              c.League,
		StartDate:           c.StartDate,
		CoachConfirmed:      c.CoachConfirmed,
		PlayerConfirmed:     c.PlayerConfirmed,
		ParentConfirmed:     c.ParentConfirmed,
		Status:              string(c.Status),
		SuccessStory:        c.SuccessStory,
		Rating:              c.Rating,
		Feedback:            c.Feedback,
		PublicStory:         c.PublicStory,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		CompletedAt:         c.CompletedAt,
	}
}

func newCompletionViews(list []model.Completion) []completionView {
	out := make([]completionView, 0, len(list))
	for _, c := range list {
		out = append(out, newCompletionView(c))
	}
	return out
}
