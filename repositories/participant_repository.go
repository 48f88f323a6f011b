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
	ErrParticipantNotFound        = errors.New("participant not found")
	ErrParticipantNicknameInvalid = errors.New("participant nickname is invalid")
	ErrPhoenixPowerUsed           = errors.New("phoenix power already used")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context) ([]models.Participant, error)
	// ConsumePhoenixPower снимает флаг только если он еще выставлен.
	ConsumePhoenixPower(ctx context.Context, id int) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `
		INSERT INTO participants (nickname, phoenix_power)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, p.Nickname, p.PhoenixPower).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" { // check_violation
			return ErrParticipantNicknameInvalid
		}
		return fmt.Errorf("failed to insert participant %q: %w", p.Nickname, err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT id, nickname, phoenix_power, created_at FROM participants WHERE id = $1`

	var p models.Participant
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Nickname, &p.PhoenixPower, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresParticipantRepository) List(ctx context.Context) ([]models.Participant, error) {
	query := `SELECT id, nickname, phoenix_power, created_at FROM participants ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Nickname, &p.PhoenixPower, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) ConsumePhoenixPower(ctx context.Context, id int) error {
	query := `UPDATE participants SET phoenix_power = FALSE WHERE id = $1 AND phoenix_power = TRUE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume phoenix power of participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPhoenixPowerUsed)
}

func (r *postgresParticipantRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	return nil
}
