package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamup-app/internal/model"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyMigrations(db, "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

const userColumns = `id, first_name, last_name, email, password_hash, role`

func (s *PostgresStore) ListUsers() []model.User {
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

func (s *PostgresStore) GetUser(id string) (model.User, bool) {
	user, err := scanUserRow(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

func (s *PostgresStore) GetUserByEmail(email string) (model.User, bool) {
	user, err := scanUserRow(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

func (s *PostgresStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role) VALUES ($1,$2,$3,$4,$5,$6)`,
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

const listingColumns = `id, kind, owner_id, title, filled, active, created_at`

func (s *PostgresStore) ListListings() []model.Listing {
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

func (s *PostgresStore) GetListing(id string) (model.Listing, bool) {
	listing, err := scanListingRow(s.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if err != nil {
		return model.Listing{}, false
	}
	return listing, true
}

func (s *PostgresStore) CreateListing(listing model.Listing) (model.Listing, error) {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	listing.Active = true
	_, err := s.db.Exec(`INSERT INTO listings (id, kind, owner_id, title, filled, active, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		listing.ID, string(listing.Kind), listing.OwnerID, listing.Title, listing.Filled, listing.Active, listing.CreatedAt,
	)
	if err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

func (s *PostgresStore) MarkListingFilled(id string) error {
	res, err := s.db.Exec(`UPDATE listings SET filled = TRUE, active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("listing not found")
	}
	return nil
}

func (s *PostgresStore) MarkListingInactive(id string) error {
	res, err := s.db.Exec(`UPDATE listings SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("listing not found")
	}
	return nil
}

const completionColumns = `id, match_type, vacancy_id, availability_id, child_availability_id,
coach_id, player_id, parent_id,
player_name, team_name, position, age_group, league, start_date,
coach_confirmed, player_confirmed, parent_confirmed, status,
success_story, rating, feedback, public_story,
created_at, updated_at, completed_at`

func (s *PostgresStore) CreateCompletion(completion model.Completion) (model.Completion, error) {
	completion = withCompletionDefaults(completion)
	_, err := s.db.Exec(`INSERT INTO completions (`+completionColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`,
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

func (s *PostgresStore) GetCompletion(id string) (model.Completion, bool) {
	completion, err := scanCompletionRow(s.db.QueryRow(`SELECT `+completionColumns+` FROM completions WHERE id = $1`, id))
	if err != nil {
		return model.Completion{}, false
	}
	return completion, true
}

func (s *PostgresStore) ListCompletionsByParticipant(userID string) []model.Completion {
	rows, err := s.db.Query(`SELECT `+completionColumns+` FROM completions
WHERE $1 <> '' AND (coach_id = $1 OR player_id = $1 OR parent_id = $1)
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

func (s *PostgresStore) SetConfirmation(id string, role model.Role, actorID string, now time.Time) (bool, error) {
	column, idColumn, ok := confirmationColumn(role)
	if !ok {
		return false, nil
	}
	res, err := s.db.Exec(`UPDATE completions
SET `+column+` = TRUE,
    `+idColumn+` = CASE WHEN `+idColumn+` = '' THEN $3 ELSE `+idColumn+` END,
    updated_at = $2
WHERE id = $1 AND `+column+` = FALSE`, id, now, actorID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *PostgresStore) MarkCompleted(id string, now time.Time) (bool, error) {
	res, err := s.db.Exec(`UPDATE completions SET status = $3, completed_at = $2, updated_at = $2 WHERE id = $1 AND status = $4`,
		id, now, string(model.CompletionConfirmed), string(model.CompletionPending))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *PostgresStore) UpdateStory(id string, patch model.StoryPatch, now time.Time) (model.Completion, error) {
	res, err := s.db.Exec(`UPDATE completions SET
  success_story = COALESCE($2, success_story),
  rating = COALESCE($3, rating),
  feedback = COALESCE($4, feedback),
  public_story = COALESCE($5, public_story),
  updated_at = $6
WHERE id = $1`,
		id, patch.SuccessStory, patch.Rating, patch.Feedback, patch.PublicStory, now)
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

func (s *PostgresStore) ListPublicStories(limit, offset int) ([]model.Completion, int) {
	limit, offset = clampPage(limit, offset)
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE status = $1 AND public_story = TRUE AND success_story <> ''`,
		string(model.CompletionConfirmed)).Scan(&total); err != nil {
		return nil, 0
	}
	rows, err := s.db.Query(`SELECT `+completionColumns+` FROM completions
WHERE status = $1 AND public_story = TRUE AND success_story <> ''
ORDER BY completed_at DESC LIMIT $2 OFFSET $3`,
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

func confirmationColumn(role model.Role) (string, string, bool) {
	switch role {
	case model.RoleCoach:
		return "coach_confirmed", "coach_id", true
	case model.RolePlayer:
		return "player_confirmed", "player_id", true
	case model.RoleParent:
		return "parent_confirmed", "parent_id", true
	}
	return "", "", false
}

func withCompletionDefaults(completion model.Completion) model.Completion {
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
	return completion
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanUserRow(scanner interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	var role string
	if err := scanner.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func scanListingRow(scanner interface{ Scan(dest ...any) error }) (model.Listing, error) {
	var l model.Listing
	var kind string
	var createdAt sql.NullTime
	if err := scanner.Scan(&l.ID, &kind, &l.OwnerID, &l.Title, &l.Filled, &l.Active, &createdAt); err != nil {
		return model.Listing{}, err
	}
	l.Kind = model.ListingKind(kind)
	if createdAt.Valid {
		l.CreatedAt = createdAt.Time
	}
	return l, nil
}

func scanCompletionRow(scanner interface{ Scan(dest ...any) error }) (model.Completion, error) {
	var c model.Completion
	var matchType, status string
	var startDate, createdAt, updatedAt, completedAt sql.NullTime
	if err := scanner.Scan(
		&c.ID,
		&matchType,
		&c.VacancyID,
		&c.AvailabilityID,
		&c.ChildAvailabilityID,
		&c.CoachID,
		&c.PlayerID,
		&c.ParentID,
		&c.PlayerName,
		&c.TeamName,
		&c.Position,
		&c.AgeGroup,
		&c.League,
		&startDate,
		&c.CoachConfirmed,
		&c.PlayerConfirmed,
		&c.ParentConfirmed,
		&status,
		&c.SuccessStory,
		&c.Rating,
		&c.Feedback,
		&c.PublicStory,
		&createdAt,
		&updatedAt,
		&completedAt,
	); err != nil {
		return model.Completion{}, err
	}
	c.MatchType = model.MatchType(matchType)
	c.Status = model.CompletionStatus(status)
	if startDate.Valid {
		parsed := startDate.Time
		c.StartDate = &parsed
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	if completedAt.Valid {
		parsed := completedAt.Time
		c.CompletedAt = &parsed
	}
	return c, nil
}

func timePtrValue(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}
