package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mergington/internal/activity/models"
	"mergington/pkg/platform/sentinel"
)

// Postgres persists the registry in PostgreSQL. Roster order is kept by the
// monotonic position column; membership uniqueness by the participants
// primary key.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Seed inserts the fixed dataset. Existing activities and roster entries are
// left untouched so restarts do not reset rosters.
func (s *Postgres) Seed(ctx context.Context, activities []*models.Activity) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range activities {
		tag, err := tx.Exec(ctx,
			`INSERT INTO activities (name, description, schedule, max_participants)
             VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
			a.Name, a.Description, a.Schedule, a.MaxParticipants)
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		for _, email := range a.Participants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO participants (activity_name, email) VALUES ($1, $2)
                 ON CONFLICT DO NOTHING`,
				a.Name, email); err != nil {
				return fmt.Errorf("seed participant %q: %w", email, err)
			}
		}
	}
	return tx.Commit(ctx)
}

// List returns every activity with its roster in signup order.
func (s *Postgres) List(ctx context.Context) ([]*models.Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.name, a.description, a.schedule, a.max_participants, p.email
         FROM activities a
         LEFT JOIN participants p ON p.activity_name = a.name
         ORDER BY a.name, p.position`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	byName := make(map[string]*models.Activity)
	for rows.Next() {
		var (
			a     models.Activity
			email *string
		)
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &email); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		current, ok := byName[a.Name]
		if !ok {
			current = &a
			current.Participants = []string{}
			byName[a.Name] = current
			out = append(out, current)
		}
		if email != nil {
			current.Participants = append(current.Participants, *email)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}
	return out, nil
}

// FindByName returns one activity with its roster in signup order.
func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	var a models.Activity
	err := s.pool.QueryRow(ctx,
		`SELECT name, description, schedule, max_participants FROM activities WHERE name = $1`,
		name).Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("activity %q: %w", name, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT email FROM participants WHERE activity_name = $1 ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	a.Participants = []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		a.Participants = append(a.Participants, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster rows: %w", err)
	}
	return &a, nil
}

// AddParticipant appends email to the activity roster.
// Returns ErrNotFound for unknown activities, ErrAlreadyUsed for duplicates.
func (s *Postgres) AddParticipant(ctx context.Context, name, email string) error {
	if err := s.requireActivity(ctx, name); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO participants (activity_name, email) VALUES ($1, $2)
         ON CONFLICT DO NOTHING`,
		name, email)
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrAlreadyUsed)
	}
	return nil
}

// RemoveParticipant deletes email from the activity roster.
// Returns ErrNotFound for unknown activities, ErrInvalidState when the email
// is not on the roster.
func (s *Postgres) RemoveParticipant(ctx context.Context, name, email string) error {
	if err := s.requireActivity(ctx, name); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM participants WHERE activity_name = $1 AND email = $2`,
		name, email)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrInvalidState)
	}
	return nil
}

func (s *Postgres) requireActivity(ctx context.Context, name string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM activities WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check activity: %w", err)
	}
	if !exists {
		return fmt.Errorf("activity %q: %w", name, sentinel.ErrNotFound)
	}
	return nil
}
