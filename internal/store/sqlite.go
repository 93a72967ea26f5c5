package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamup-app/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes on a single connection; a larger pool
	// only produces SQLITE_BUSY under concurrent confirms.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := applyMigrations(db, "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListUsers() []model.User {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY first_name, last_name`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users
}

func (s *SQLiteStore) GetUser(id string) (model.User, bool) {
	user, err := scanUserRow(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

func (s *SQLiteStore) GetUserByEmail(email string) (model.User, bool) {
	user, err := scanUserRow(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?) LIMIT 1`, email))
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

func (s *SQLiteStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?,?)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, string(user.Role),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.User{}, errors.New("email already exists")
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *SQLiteStore) ListListings() []model.Listing {
	rows, err := s.db.Query(`SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	listings := []model.Listing{}
	for rows.Next() {
		listing, err := scanListingRow(rows)
		if err != nil {
			continue
		}
		listings = append(listings, listing)
	}
	return listings
}

func (s *SQLiteStore) GetListing(id string) (model.Listing, bool) {
	listing, err := scanListingRow(s.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id))
	if err != nil {
		return model.Listing{}, false
	}
	return listing, true
}

func (s *SQLiteStore) CreateListing(listing model.Listing) (model.Listing, error) {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	listing.Active = true
	_, err := s.db.Exec(`INSERT INTO listings (id, kind, owner_id, title, filled, active, created_at) VALUES (?,?,?,?,?,?,?)`,
		listing.ID, string(listing.Kind), listing.OwnerID, listing.Title, listing.Filled, listing.Active, listing.CreatedAt,
	)
	if err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

func (s *SQLiteStore) MarkListingFilled(id string) error {
	res, err := s.db.Exec(`UPDATE listings SET filled = 1, active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("listing not found")
	}
	return nil
}

func (s *SQLiteStore) MarkListingInactive(id string) error {
	res, err := s.db.Exec(`UPDATE listings SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("listing not found")
	}
	return nil
}

func (s *SQLiteStore) CreateCompletion(completion model.Completion) (model.Completion, error) {
	completion = withCompletionDefaults(completion)
	_, err := s.db.Exec(`INSERT INTO completions (`+completionColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		completion.ID, string(completion.MatchType),
		completion.VacancyID, completion.AvailabilityID, completion.ChildAvailabilityID,
		completion.CoachID, completion.PlayerID, completion.ParentID,
		completion.PlayerName, completion.TeamName, completion.Position, completion.AgeGroup, completion.League, timePtrValue(completion.StartDate),
		completion.CoachConfirmed, completion.PlayerConfirmed, completion.ParentConfirmed, string(completion.Status),
		completion.SuccessStory, completion.Rating, completion.Feedback, completion.PublicStory,
		completion.CreatedAt, completion.UpdatedAt, timePtrValue(completion.CompletedAt),
	)
	if err != nil {
		return model.Completion{}, err
	}
	return completion, nil
}

func (s *SQLiteStore) GetCompletion(id string) (model.Completion, bool) {
	completion, err := scanCompletionRow(s.db.QueryRow(`SELECT `+completionColumns+` FROM completions WHERE id = ?`, id))
	if err != nil {
		return model.Completion{}, false
	}
	return completion, true
}

func (s *SQLiteStore) ListCompletionsByParticipant(userID string) []model.Completion {
	rows, err := s.db.Query(`SELECT `+completionColumns+` FROM completions
WHERE ?1 <> '' AND (coach_id = ?1 OR player_id = ?1 OR parent_id = ?1)
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	completions := []model.Completion{}
	for rows.Next() {
		completion, err := scanCompletionRow(rows)
		if err != nil {
			continue
		}
		completions = append(completions, completion)
	}
	return completions
}

func (s *SQLiteStore) SetConfirmation(id string, role model.Role, actorID string, now time.Time) (bool, error) {
	column, idColumn, ok := confirmationColumn(role)
	if !ok {
		return false, nil
	}
	res, err := s.db.Exec(`UPDATE completions
SET `+column+` = 1,
    `+idColumn+` = CASE WHEN `+idColumn+` = '' THEN ?3 ELSE `+idColumn+` END,
    updated_at = ?1
WHERE id = ?2 AND `+column+` = 0`, now, id, actorID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *SQLiteStore) MarkCompleted(id string, now time.Time) (bool, error) {
	res, err := s.db.Exec(`UPDATE completions SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(model.CompletionConfirmed), now, now, id, string(model.CompletionPending))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *SQLiteStore) UpdateStory(id string, patch model.StoryPatch, now time.Time) (model.Completion, error) {
	res, err := s.db.Exec(`UPDATE completions SET
  success_story = COALESCE(?, success_story),
  rating = COALESCE(?, rating),
  feedback = COALESCE(?, feedback),
  public_story = COALESCE(?, public_story),
  updated_at = ?
WHERE id = ?`,
		patch.SuccessStory, patch.Rating, patch.Feedback, patch.PublicStory, now, id)
	if err != nil {
		return model.Completion{}, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return model.Completion{}, errors.New("completion not found")
	}
	completion, ok := s.GetCompletion(id)
	if !ok {
		return model.Completion{}, errors.New("completion not found")
	}
	return completion, nil
}

func (s *SQLiteStore) ListPublicStories(limit, offset int) ([]model.Completion, int) {
	limit, offset = clampPage(limit, offset)
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE status = ? AND public_story = 1 AND success_story <> ''`,
		string(model.CompletionConfirmed)).Scan(&total); err != nil {
		return nil, 0
	}
	rows, err := s.db.Query(`SELECT `+completionColumns+` FROM completions
WHERE status = ? AND public_story = 1 AND success_story <> ''
ORDER BY completed_at DESC LIMIT ? OFFSET ?`,
		string(model.CompletionConfirmed), limit, offset)
	if err != nil {
		return nil, 0
	}
	defer rows.Close()

	stories := []model.Completion{}
	for rows.Next() {
		completion, err := scanCompletionRow(rows)
		if err != nil {
			continue
		}
		stories = append(stories, completion)
	}
	return stories, total
}
