package web

import (
	"net/http"
	"strings"
	"time"

	"teamup-app/internal/model"

	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "first_name, last_name, email and password are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	role := model.Role(req.Role)
	if role != model.RoleCoach && role != model.RolePlayer && role != model.RoleParent {
		respondError(w, http.StatusBadRequest, "role must be coach, player or parent")
		return
	}
	user := model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashPassword(req.Password),
		Role:         role,
	}
	created, err := s.store.CreateUser(user)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	setAuthCookie(w, created.ID)
	respondJSON(w, http.StatusCreated, newUserView(created))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	user, ok := s.store.GetUserByEmail(strings.TrimSpace(req.Email))
	if !ok || !checkPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	setAuthCookie(w, user.ID)
	respondJSON(w, http.StatusOK, newUserView(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user.ID == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, newUserView(user))
}

func (s *Server) currentUser(r *http.Request) model.User {
	cookie, err := r.Cookie(actorCookieName)
	if err == nil {
		if user, ok := s.store.GetUser(cookie.Value); ok {
			return user
		}
	}
	return model.User{}
}

// currentActor resolves the session once into the explicit actor value the
// coordinator works with.
func (s *Server) currentActor(r *http.Request) (model.Actor, bool) {
	user := s.currentUser(r)
	if user.ID == "" {
		return model.Actor{}, false
	}
	return model.Actor{ID: user.ID, Role: user.Role}, true
}

func setAuthCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     actorCookieName,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     actorCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func checkPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
