package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

// QueryObserver receives timing for each database round trip.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

const activitySchema = `
CREATE TABLE IF NOT EXISTS activities (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	schedule TEXT NOT NULL,
	max_participants INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_participants (
	id BIGSERIAL PRIMARY KEY,
	activity_name TEXT NOT NULL REFERENCES activities(name) ON DELETE CASCADE,
	email TEXT NOT NULL,
	signed_up_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (activity_name, email)
);`

const (
	selectActivitiesQuery   = `SELECT name, description, schedule, max_participants FROM activities ORDER BY name`
	selectActivityQuery     = `SELECT name, description, schedule, max_participants FROM activities WHERE name = $1`
	selectParticipantsQuery = `SELECT activity_name, email FROM activity_participants ORDER BY id`
	selectRosterQuery       = `SELECT activity_name, email FROM activity_participants WHERE activity_name = $1 ORDER BY id`
	activityExistsQuery     = `SELECT EXISTS(SELECT 1 FROM activities WHERE name = $1)`
	insertParticipantQuery  = `INSERT INTO activity_participants (activity_name, email) VALUES ($1, $2) ON CONFLICT (activity_name, email) DO NOTHING`
	deleteParticipantQuery  = `DELETE FROM activity_participants WHERE activity_name = $1 AND email = $2`
	insertActivityQuery     = `INSERT INTO activities (name, description, schedule, max_participants) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`
)

type activityRow struct {
	Name            string `db:"name"`
	Description     string `db:"description"`
	Schedule        string `db:"schedule"`
	MaxParticipants int    `db:"max_participants"`
}

type participantRow struct {
	ActivityName string `db:"activity_name"`
	Email        string `db:"email"`
}

// PostgresActivityRepository persists the activity registry in PostgreSQL.
// Participant order follows insertion id; uniqueness is enforced by the
// (activity_name, email) constraint.
type PostgresActivityRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewPostgresActivityRepository constructs the repository. observer may be nil.
func NewPostgresActivityRepository(db *sqlx.DB, observer QueryObserver) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db, observer: observer}
}

func (r *PostgresActivityRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}

// Migrate creates the activity tables when missing.
func (r *PostgresActivityRepository) Migrate(ctx context.Context) error {
	defer r.observe("activities_migrate", time.Now())
	if _, err := r.db.ExecContext(ctx, activitySchema); err != nil {
		return fmt.Errorf("migrate activity schema: %w", err)
	}
	return nil
}

// Seed inserts activities that do not exist yet. Rosters of existing
// activities are left untouched so restarts keep removals.
func (r *PostgresActivityRepository) Seed(ctx context.Context, activities models.Activities) error {
	defer r.observe("activities_seed", time.Now())

	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, name := range names {
		activity := activities[name]
		res, err := tx.ExecContext(ctx, insertActivityQuery, name, activity.Description, activity.Schedule, activity.MaxParticipants)
		if err != nil {
			return fmt.Errorf("seed activity %s: %w", name, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("seed activity %s: %w", name, err)
		}
		if inserted == 0 {
			continue
		}
		for _, email := range activity.Participants {
			if _, err := tx.ExecContext(ctx, insertParticipantQuery, name, email); err != nil {
				return fmt.Errorf("seed participant %s/%s: %w", name, email, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// List returns every activity with its ordered roster.
func (r *PostgresActivityRepository) List(ctx context.Context) (models.Activities, error) {
	defer r.observe("activities_list", time.Now())

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, selectActivitiesQuery); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	var participants []participantRow
	if err := r.db.SelectContext(ctx, &participants, selectParticipantsQuery); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make(models.Activities, len(rows))
	for _, row := range rows {
		out[row.Name] = models.Activity{
			Description:     row.Description,
			Schedule:        row.Schedule,
			MaxParticipants: row.MaxParticipants,
			Participants:    []string{},
		}
	}
	for _, p := range participants {
		activity, ok := out[p.ActivityName]
		if !ok {
			continue
		}
		activity.Participants = append(activity.Participants, p.Email)
		out[p.ActivityName] = activity
	}
	return out, nil
}

// Get returns one activity with its ordered roster.
func (r *PostgresActivityRepository) Get(ctx context.Context, name string) (*models.Activity, error) {
	defer r.observe("activities_get", time.Now())

	var row activityRow
	if err := r.db.GetContext(ctx, &row, selectActivityQuery, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity %s: %w", name, err)
	}
	var participants []participantRow
	if err := r.db.SelectContext(ctx, &participants, selectRosterQuery, name); err != nil {
		return nil, fmt.Errorf("get roster %s: %w", name, err)
	}

	activity := &models.Activity{
		Description:     row.Description,
		Schedule:        row.Schedule,
		MaxParticipants: row.MaxParticipants,
		Participants:    make([]string, 0, len(participants)),
	}
	for _, p := range participants {
		activity.Participants = append(activity.Participants, p.Email)
	}
	return activity, nil
}

// AddParticipant appends email to the roster.
func (r *PostgresActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	defer r.observe("participants_insert", time.Now())

	if err := r.ensureActivity(ctx, name); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, insertParticipantQuery, name, email)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	if affected == 0 {
		return ErrParticipantExists
	}
	return nil
}

// RemoveParticipant drops email from the roster.
func (r *PostgresActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	defer r.observe("participants_delete", time.Now())

	if err := r.ensureActivity(ctx, name); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, deleteParticipantQuery, name, email)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if affected == 0 {
		return ErrParticipantMissing
	}
	return nil
}

func (r *PostgresActivityRepository) ensureActivity(ctx context.Context, name string) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, activityExistsQuery, name); err != nil {
		return fmt.Errorf("check activity %s: %w", name, err)
	}
	if !exists {
		return ErrActivityNotFound
	}
	return nil
}
