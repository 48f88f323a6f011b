package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/battle-system/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventAlreadyExists = errors.New("event already exists")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.Event) error
	// Get возвращает единственное событие.
	Get(ctx context.Context) (*models.Event, error)
	Update(ctx context.Context, exec SQLExecutor, e *models.Event) error
	// DeleteAll удаляет события; баттлы и оценки уходят каскадом.
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		INSERT INTO events (name, current_stage, completed_battles_in_stage)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, e.Name, e.CurrentStage, e.CompletedBattlesInStage).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "events_singleton_key" {
			return ErrEventAlreadyExists
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) Get(ctx context.Context) (*models.Event, error) {
	query := `
		SELECT id, name, current_stage, completed_battles_in_stage, winner_id, created_at
		FROM events
		ORDER BY id
		LIMIT 1`

	var e models.Event
	err := r.db.QueryRowContext(ctx, query).Scan(
		&e.ID,
		&e.Name,
		&e.CurrentStage,
		&e.CompletedBattlesInStage,
		&e.WinnerID,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return &e, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		UPDATE events
		SET current_stage = $1, completed_battles_in_stage = $2, winner_id = $3
		WHERE id = $4`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		e.CurrentStage,
		e.CompletedBattlesInStage,
		e.WinnerID,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", e.ID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}
