package store

import (
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"teamup-app/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]model.User
	listings    map[string]model.Listing
	completions map[string]model.Completion
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:       make(map[string]model.User),
		listings:    make(map[string]model.Listing),
		completions: make(map[string]model.Completion),
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}

	return s
}

func (s *MemoryStore) ListUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName() < users[j].FullName() })
	return users
}

func (s *MemoryStore) GetUser(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryStore) GetUserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *MemoryStore) CreateUser(user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Email == "" {
		return model.User{}, errors.New("email is required")
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errors.New("email already exists")
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) ListListings() []model.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := make([]model.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	return listings
}

func (s *MemoryStore) GetListing(id string) (model.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	return l, ok
}

func (s *MemoryStore) CreateListing(listing model.Listing) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	listing.Active = true
	s.listings[listing.ID] = listing
	return listing, nil
}

func (s *MemoryStore) MarkListingFilled(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return errors.New("listing not found")
	}
	listing.Filled = true
	listing.Active = false
	s.listings[id] = listing
	return nil
}

func (s *MemoryStore) MarkListingInactive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return errors.New("listing not found")
	}
	listing.Active = false
	s.listings[id] = listing
	return nil
}

func (s *MemoryStore) CreateCompletion(completion model.Completion) (model.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}
	if completion.CreatedAt.IsZero() {
		completion.CreatedAt = time.Now()
	}
	if completion.UpdatedAt.IsZero() {
		completion.UpdatedAt = completion.CreatedAt
	}
	if completion.Status == "" {
		completion.Status = model.CompletionPending
	}
	s.completions[completion.ID] = completion
	return completion, nil
}

func (s *MemoryStore) GetCompletion(id string) (model.Completion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.completions[id]
	return c, ok
}

func (s *MemoryStore) ListCompletionsByParticipant(userID string) []model.Completion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completions := make([]model.Completion, 0)
	for _, c := range s.completions {
		if c.IsParticipant(userID) {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].CreatedAt.After(completions[j].CreatedAt) })
	return completions
}

func (s *MemoryStore) SetConfirmation(id string, role model.Role, actorID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.completions[id]
	if !ok {
		return false, nil
	}
	if c.ConfirmedBy(role) {
		return false, nil
	}
	switch role {
	case model.RoleCoach:
		c.CoachConfirmed = true
		if c.CoachID == "" {
			c.CoachID = actorID
		}
	case model.RolePlayer:
		c.PlayerConfirmed = true
		if c.PlayerID == "" {
			c.PlayerID = actorID
		}
	case model.RoleParent:
		c.ParentConfirmed = true
		if c.ParentID == "" {
			c.ParentID = actorID
		}
	default:
		return false, nil
	}
	c.UpdatedAt = now
	s.completions[id] = c
	return true, nil
}

func (s *MemoryStore) MarkCompleted(id string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.completions[id]
	if !ok {
		return false, nil
	}
	if c.Status != model.CompletionPending {
		return false, nil
	}
	c.Status = model.CompletionConfirmed
	stamped := now
	c.CompletedAt = &stamped
	c.UpdatedAt = now
	s.completions[id] = c
	return true, nil
}

func (s *MemoryStore) UpdateStory(id string, patch model.StoryPatch, now time.Time) (model.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.completions[id]
	if !ok {
		return model.Completion{}, errors.New("completion not found")
	}
	if patch.SuccessStory != nil {
		c.SuccessStory = *patch.SuccessStory
	}
	if patch.Rating != nil {
		c.Rating = *patch.Rating
	}
	if patch.Feedback != nil {
		c.Feedback = *patch.Feedback
	}
	if patch.PublicStory != nil {
		c.PublicStory = *patch.PublicStory
	}
	c.UpdatedAt = now
	s.completions[id] = c
	return c, nil
}

func (s *MemoryStore) ListPublicStories(limit, offset int) ([]model.Completion, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stories := make([]model.Completion, 0)
	for _, c := range s.completions {
		if c.Status == model.CompletionConfirmed && c.PublicStory && c.SuccessStory != "" {
			stories = append(stories, c)
		}
	}
	sort.Slice(stories, func(i, j int) bool {
		a, b := stories[i].CompletedAt, stories[j].CompletedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	total := len(stories)
	return pageCompletions(stories, limit, offset), total
}

func pageCompletions(list []model.Completion, limit, offset int) []model.Completion {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []model.Completion{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
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

func seedData(s *MemoryStore) {
	defaultHash := hashPassword("password123")

	seedUsers := []model.User{
		{ID: uuid.NewString(), FirstName: "Marek", LastName: "Sobczak", Email: "marek.sobczak@example.com", Role: model.RoleCoach},
		{ID: uuid.NewString(), FirstName: "Iwona", LastName: "Krajewska", Email: "iwona.krajewska@example.com", Role: model.RoleCoach},
		{ID: uuid.NewString(), FirstName: "Adrian", LastName: "Pawlak", Email: "adrian.pawlak@example.com", Role: model.RolePlayer},
		{ID: uuid.NewString(), FirstName: "Szymon", LastName: "Wilk", Email: "szymon.wilk@example.com", Role: model.RolePlayer},
		{ID: uuid.NewString(), FirstName: "Beata", LastName: "Nowacka", Email: "beata.nowacka@example.com", Role: model.RoleParent},
	}
	for i := range seedUsers {
		seedUsers[i].PasswordHash = defaultHash
		s.users[seedUsers[i].ID] = seedUsers[i]
	}

	coach := seedUsers[0]
	player := seedUsers[2]
	parent := seedUsers[4]

	seedListings := []model.Listing{
		{ID: uuid.NewString(), Kind: model.ListingVacancy, OwnerID: coach.ID, Title: "Striker wanted, U15 boys", Active: true},
		{ID: uuid.NewString(), Kind: model.ListingVacancy, OwnerID: seedUsers[1].ID, Title: "Goalkeeper, senior women", Active: true},
		{ID: uuid.NewString(), Kind: model.ListingPlayerAvail, OwnerID: player.ID, Title: "Midfielder looking for a club", Active: true},
		{ID: uuid.NewString(), Kind: model.ListingChildAvail, OwnerID: parent.ID, Title: "U10 defender, weekends", Active: true},
	}
	for _, l := range seedListings {
		l.CreatedAt = time.Now().AddDate(0, 0, -len(s.listings))
		s.listings[l.ID] = l
	}
}
