package web

import (
	"net/http"
	"strings"

	"teamup-app/internal/model"
)

type createListingRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

func (s *Server) handleListingCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.currentActor(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	kind := model.ListingKind(req.Kind)
	if kind != model.ListingVacancy && kind != model.ListingPlayerAvail && kind != model.ListingChildAvail {
		respondError(w, http.StatusBadRequest, "kind must be vacancy, player_availability or child_availability")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	created, err := s.store.CreateListing(model.Listing{
		Kind:    kind,
		OwnerID: actor.ID,
		Title:   req.Title,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, newListingView(created))
}

func (s *Server) handleListingsList(w http.ResponseWriter, r *http.Request) {
	listings := s.store.ListListings()
	views := make([]listingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, newListingView(l))
	}
	respondJSON(w, http.StatusOK, views)
}
