package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamup-app/internal/completion"
	"teamup-app/internal/store"

	"github.com/go-chi/chi/v5"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	t.Setenv("APP", "prod")
	st := store.NewMemoryStore()
	coordinator := completion.NewCoordinator(st, completion.NewLifecycle(st))
	server := NewServer(st, coordinator)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return WithCurrentActor(st, next)
	})
	r.Mount("/", server.Routes())

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, st
}

// doJSON fires a request with an optional session cookie and decodes the
// JSON body into out when out is non-nil.
func doJSON(t *testing.T, method, url string, body any, sessionID string, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: actorCookieName, Value: sessionID})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

// register creates an account through the API and returns the user id,
// which doubles as the session cookie value.
func register(t *testing.T, baseURL, email, role string) string {
	t.Helper()
	var user struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, baseURL+"/api/register", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "password123",
		"role":       role,
	}, "", &user)
	assertEq(t, resp.StatusCode, http.StatusCreated)
	if user.ID == "" {
		t.Fatal("expected user id in register response")
	}
	return user.ID
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	assertEq(t, resp.StatusCode, http.StatusOK)
}

func TestAuthFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	coachID := register(t, ts.URL, "coach@example.com", "coach")

	var me struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/me", nil, coachID, &me)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, me.ID, coachID)
	assertEq(t, me.Role, "coach")

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/login", map[string]string{
		"email": "coach@example.com", "password": "wrong-password",
	}, "", nil)
	assertEq(t, resp.StatusCode, http.StatusUnauthorized)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/login", map[string]string{
		"email": "coach@example.com", "password": "password123",
	}, "", nil)
	assertEq(t, resp.StatusCode, http.StatusOK)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/register", map[string]string{
		"first_name": "A", "last_name": "B", "email": "x@example.com",
		"password": "password123", "role": "referee",
	}, "", nil)
	assertEq(t, resp.StatusCode, http.StatusBadRequest)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/logout", nil, coachID, nil)
	assertEq(t, resp.StatusCode, http.StatusNoContent)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/completions", map[string]string{}, "", nil)
	assertEq(t, resp.StatusCode, http.StatusUnauthorized)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions", map[string]string{}, "bogus-session", nil)
	assertEq(t, resp.StatusCode, http.StatusUnauthorized)

	// Listings are readable without a session, but not writable.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/listings", nil, "", nil)
	assertEq(t, resp.StatusCode, http.StatusOK)
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/listings", map[string]string{"kind": "vacancy", "title": "x"}, "", nil)
	assertEq(t, resp.StatusCode, http.StatusUnauthorized)
}

func TestCompletionFlow(t *testing.T) {
	ts, st := newTestServer(t)

	coachID := register(t, ts.URL, "coach@example.com", "coach")
	playerID := register(t, ts.URL, "player@example.com", "player")
	parentID := register(t, ts.URL, "parent@example.com", "parent")

	var listing struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/listings", map[string]string{
		"kind": "vacancy", "title": "Striker wanted, U15",
	}, coachID, &listing)
	assertEq(t, resp.StatusCode, http.StatusCreated)

	createBody := map[string]any{
		"match_type":  "player_to_team",
		"vacancy_id":  listing.ID,
		"player_name": "Adrian Pawlak",
		"team_name":   "KS Orzel",
		"position":    "striker",
		"age_group":   "U15",
		"league":      "district",
		"start_date":  "2026-09-01",
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"completion_status"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions", createBody, coachID, &created)
	assertEq(t, resp.StatusCode, http.StatusCreated)
	assertEq(t, created.Status, "pending")

	// Story before confirmation: too early.
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/completions/"+created.ID+"/story",
		map[string]any{"success_story": "too soon"}, coachID, nil)
	assertEq(t, resp.StatusCode, http.StatusTooEarly)

	// A parent has no side to attest on a player placement.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions/"+created.ID+"/confirm", nil, parentID, nil)
	assertEq(t, resp.StatusCode, http.StatusForbidden)

	var confirm struct {
		Status       string `json:"completion_status"`
		AllConfirmed bool   `json:"all_confirmed"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions/"+created.ID+"/confirm", nil, playerID, &confirm)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, confirm.Status, "confirmed")
	assertEq(t, confirm.AllConfirmed, true)

	// Redundant confirm conflicts.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions/"+created.ID+"/confirm", nil, playerID, nil)
	assertEq(t, resp.StatusCode, http.StatusConflict)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/completions/unknown/confirm", nil, playerID, nil)
	assertEq(t, resp.StatusCode, http.StatusNotFound)

	vacancy, ok := st.GetListing(listing.ID)
	assertEq(t, ok, true)
	assertEq(t, vacancy.Filled, true)
	assertEq(t, vacancy.Active, false)

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/completions/"+created.ID+"/story",
		map[string]any{"rating": 6}, playerID, nil)
	assertEq(t, resp.StatusCode, http.StatusBadRequest)

	var story struct {
		SuccessStory string `json:"success_story"`
		Rating       int    `json:"rating"`
		PublicStory  bool   `json:"public_story"`
	}
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/completions/"+created.ID+"/story",
		map[string]any{"success_story": "Found the right club.", "rating": 5, "public_story": true}, playerID, &story)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, story.Rating, 5)
	assertEq(t, story.PublicStory, true)

	// The public reader needs no session.
	var page struct {
		Stories []struct {
			ID           string `json:"id"`
			SuccessStory string `json:"success_story"`
		} `json:"stories"`
		Total int `json:"total"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/stories", nil, "", &page)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, page.Total, 1)
	assertEq(t, len(page.Stories), 1)
	assertEq(t, page.Stories[0].ID, created.ID)
	assertEq(t, page.Stories[0].SuccessStory, "Found the right club.")

	var mine []struct {
		ID string `json:"id"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/completions", nil, coachID, &mine)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, len(mine), 1)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/completions", nil, parentID, &mine)
	assertEq(t, resp.StatusCode, http.StatusOK)
	assertEq(t, len(mine), 0)
}

func TestCompletionCreate_BadStartDate(t *testing.T) {
	ts, _ := newTestServer(t)
	coachID := register(t, ts.URL, "coach@example.com", "coach")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/completions", map[string]any{
		"match_type":  "player_to_team",
		"vacancy_id":  "v1",
		"player_name": "Adrian Pawlak",
		"team_name":   "KS Orzel",
		"position":    "striker",
		"age_group":   "U15",
		"league":      "district",
		"start_date":  "01.09.2026",
	}, coachID, nil)
	assertEq(t, resp.StatusCode, http.StatusBadRequest)
}

func TestListingCreate_Validation(t *testing.T) {
	ts, _ := newTestServer(t)
	coachID := register(t, ts.URL, "coach@example.com", "coach")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/listings", map[string]string{
		"kind": "billboard", "title": "x",
	}, coachID, nil)
	assertEq(t, resp.StatusCode, http.StatusBadRequest)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/listings", map[string]string{
		"kind": "vacancy", "title": "  ",
	}, coachID, nil)
	assertEq(t, resp.StatusCode, http.StatusBadRequest)
}
