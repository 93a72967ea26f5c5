package web

import (
	"net/http"
	"time"

	"teamup-app/internal/completion"
	"teamup-app/internal/model"

	"github.com/go-chi/chi/v5"
)

type createCompletionRequest struct {
	MatchType           string `json:"match_type"`
	VacancyID           string `json:"vacancy_id"`
	AvailabilityID      string `json:"availability_id"`
	ChildAvailabilityID string `json:"child_availability_id"`
	CoachID             string `json:"coach_id"`
	PlayerID            string `json:"player_id"`
	ParentID            string `json:"parent_id"`
	PlayerName          string `json:"player_name"`
	TeamName            string `json:"team_name"`
	Position            string `json:"position"`
	AgeGroup            string `json:"age_group"`
	League              string `json:"league"`
	StartDate           string `json:"start_date"`
}

func (s *Server) handleCompletionCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.currentActor(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req createCompletionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	var startDate *time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}
	created, err := s.coordinator.Create(actor, completion.CreateInput{
		MatchType:           model.MatchType(req.MatchType),
		VacancyID:           req.VacancyID,
		AvailabilityID:      req.AvailabilityID,
		ChildAvailabilityID: req.ChildAvailabilityID,
		CoachID:             req.CoachID,
		PlayerID:            req.PlayerID,
		ParentID:            req.ParentID,
		PlayerName:          req.PlayerName,
		TeamName:            req.TeamName,
		Position:            req.Position,
		AgeGroup:            req.AgeGroup,
		League:              req.League,
		StartDate:           startDate,
	})
	if err != nil {
		respondCompletionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newCompletionView(created))
}

func (s *Server) handleCompletionConfirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.currentActor(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	completionID := chi.URLParam(r, "completionID")
	result, err := s.coordinator.Confirm(completionID, actor)
	if err != nil {
		respondCompletionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"completion_status": string(result.Status),
		"all_confirmed":     result.AllConfirmed,
	})
}

func (s *Server) handleCompletionsMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.currentActor(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, newCompletionViews(s.coordinator.ListMine(actor)))
}

type storyRequest struct {
	SuccessStory *string `json:"success_story"`
	Rating       *int    `json:"rating"`
	Feedback     *string `json:"feedback"`
	PublicStory  *bool   `json:"public_story"`
}

func (s *Server) handleStoryUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.currentActor(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req storyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	completionID := chi.URLParam(r, "completionID")
	updated, err := s.coordinator.AddStory(completionID, actor, model.StoryPatch{
		SuccessStory: req.SuccessStory,
		Rating:       req.Rating,
		Feedback:     req.Feedback,
		PublicStory:  req.PublicStory,
	})
	if err != nil {
		respondCompletionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCompletionView(updated))
}
