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
	ErrScoreConflict      = errors.New("judge already scored this participant in this battle")
	ErrScoreBattleInvalid = errors.New("score references unknown battle or participant")
)

type ScoreRepository interface {
	Create(ctx context.Context, exec SQLExecutor, s *models.Score) error
	ListByBattle(ctx context.Context, battleID int) ([]models.Score, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Score, error)
	DeleteByBattle(ctx context.Context, exec SQLExecutor, battleID int) error
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

const scoreColumns = `s.id, s.battle_id, s.participant_id, s.judge_id, s.judge_nickname,
		s.filing, s.technique, s.musicality, s.originality, s.created_at`

func (r *postgresScoreRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Score) error {
	query := `
		INSERT INTO scores
			(battle_id, participant_id, judge_id, judge_nickname, filing, technique, musicality, originality)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		s.BattleID,
		s.ParticipantID,
		s.JudgeID,
		s.JudgeNickname,
		s.Filing,
		s.Technique,
		s.Musicality,
		s.Originality,
	).Scan(&s.ID, &s.CreatedAt)

	return r.handleScoreError(err)
}

func (r *postgresScoreRepository) ListByBattle(ctx context.Context, battleID int) ([]models.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores s WHERE s.battle_id = $1 ORDER BY s.id`
	return r.list(ctx, query, battleID)
}

func (r *postgresScoreRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN battles b ON b.id = s.battle_id
		WHERE b.event_id = $1
		ORDER BY s.id`
	return r.list(ctx, query, eventID)
}

func (r *postgresScoreRepository) DeleteByBattle(ctx context.Context, exec SQLExecutor, battleID int) error {
	_, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM scores WHERE battle_id = $1`, battleID)
	if err != nil {
		return fmt.Errorf("failed to delete scores of battle %d: %w", battleID, err)
	}
	return nil
}

func (r *postgresScoreRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Score, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	scores := make([]models.Score, 0)
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(
			&s.ID,
			&s.BattleID,
			&s.ParticipantID,
			&s.JudgeID,
			&s.JudgeNickname,
			&s.Filing,
			&s.Technique,
			&s.Musicality,
			&s.Originality,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score rows: %w", err)
	}
	return scores, nil
}

func (r *postgresScoreRepository) handleScoreError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "scores_battle_participant_judge_key":
			return ErrScoreConflict
		case "scores_battle_id_fkey", "scores_participant_id_fkey":
			return ErrScoreBattleInvalid
		}
	}
	return fmt.Errorf("failed to insert score: %w", err)
}
