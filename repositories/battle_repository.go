package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/battle-system/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var (
	ErrBattleNotFound           = errors.New("battle not found")
	ErrBattleEventInvalid       = errors.New("battle references unknown event")
	ErrBattleNextInvalid        = errors.New("battle references unknown next battle")
	ErrBattleParticipantInvalid = errors.New("battle references unknown participant")
	ErrBattlePositionConflict   = errors.New("battle position already taken in this stage")
)

type BattleRepository interface {
	Create(ctx context.Context, exec SQLExecutor, b *models.Battle) error
	GetByID(ctx context.Context, id int) (*models.Battle, error)
	// ListByEvent возвращает баттлы события, опционально только одной стадии.
	ListByEvent(ctx context.Context, eventID int, stage *models.Stage) ([]models.Battle, error)
	// Update сохраняет изменяемое состояние: слоты, таймеры, суммы, победителя.
	Update(ctx context.Context, exec SQLExecutor, b *models.Battle) error
}

type postgresBattleRepository struct {
	db *sql.DB
}

func NewPostgresBattleRepository(db *sql.DB) BattleRepository {
	return &postgresBattleRepository{db: db}
}

var battleColumns = []string{
	"id", "event_id", "stage", "position", "next_battle_id",
	"participant_1_id", "participant_2_id",
	"participant_1_timer", "participant_2_timer",
	"participant_1_total_score", "participant_2_total_score",
	"winner_id", "created_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBattle(row rowScanner, b *models.Battle) error {
	return row.Scan(
		&b.ID,
		&b.EventID,
		&b.Stage,
		&b.Position,
		&b.NextBattleID,
		&b.Participant1ID,
		&b.Participant2ID,
		&b.Participant1Timer,
		&b.Participant2Timer,
		&b.Participant1TotalScore,
		&b.Participant2TotalScore,
		&b.WinnerID,
		&b.CreatedAt,
	)
}

func (r *postgresBattleRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Battle) error {
	query := `
		INSERT INTO battles
			(event_id, stage, position, next_battle_id, participant_1_id, participant_2_id,
			 participant_1_timer, participant_2_timer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		b.EventID,
		b.Stage,
		b.Position,
		b.NextBattleID,
		b.Participant1ID,
		b.Participant2ID,
		b.Participant1Timer,
		b.Participant2Timer,
	).Scan(&b.ID, &b.CreatedAt)

	return r.handleBattleError(err)
}

func (r *postgresBattleRepository) GetByID(ctx context.Context, id int) (*models.Battle, error) {
	query, args, err := psql.Select(battleColumns...).From("battles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build battle query: %w", err)
	}

	var b models.Battle
	if err := scanBattle(r.db.QueryRowContext(ctx, query, args...), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBattleNotFound
		}
		return nil, fmt.Errorf("failed to scan battle %d: %w", id, err)
	}
	return &b, nil
}

func (r *postgresBattleRepository) ListByEvent(ctx context.Context, eventID int, stage *models.Stage) ([]models.Battle, error) {
	query, args, err := listBattlesQuery(eventID, stage).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build battles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query battles of event %d: %w", eventID, err)
	}
	defer rows.Close()

	battles := make([]models.Battle, 0)
	for rows.Next() {
		var b models.Battle
		if err := scanBattle(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan battle row: %w", err)
		}
		battles = append(battles, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating battle rows: %w", err)
	}
	return battles, nil
}

// listBattlesQuery упорядочивает баттлы от первой стадии к финалу.
func listBattlesQuery(eventID int, stage *models.Stage) sq.SelectBuilder {
	q := psql.Select(battleColumns...).
		From("battles").
		Where(sq.Eq{"event_id": eventID})
	if stage != nil {
		q = q.Where(sq.Eq{"stage": *stage})
	}
	return q.OrderBy(
		"CASE stage WHEN 'round_of_16' THEN 0 WHEN 'quarterfinal' THEN 1 WHEN 'semifinal' THEN 2 ELSE 3 END",
		"position",
	)
}

func (r *postgresBattleRepository) Update(ctx context.Context, exec SQLExecutor, b *models.Battle) error {
	query, args, err := psql.Update("battles").
		Set("participant_1_id", b.Participant1ID).
		Set("participant_2_id", b.Participant2ID).
		Set("participant_1_timer", b.Participant1Timer).
		Set("participant_2_timer", b.Participant2Timer).
		Set("participant_1_total_score", b.Participant1TotalScore).
		Set("participant_2_total_score", b.Participant2TotalScore).
		Set("winner_id", b.WinnerID).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build battle update: %w", err)
	}

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleBattleError(err)
	}
	return checkAffectedRows(result, ErrBattleNotFound)
}

func (r *postgresBattleRepository) handleBattleError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "battles_event_id_fkey":
			return ErrBattleEventInvalid
		case "battles_next_battle_id_fkey":
			return ErrBattleNextInvalid
		case "battles_participant_1_id_fkey", "battles_participant_2_id_fkey", "battles_winner_id_fkey":
			return ErrBattleParticipantInvalid
		case "battles_event_stage_position_key":
			return ErrBattlePositionConflict
		}
	}
	return fmt.Errorf("battle query failed: %w", err)
}
