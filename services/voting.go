package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
)

// Vote сохраняет оценку судьи одной из сторон баттла и, если баттл
// полностью оценен, запускает продвижение победителя.
func (s *battleService) Vote(ctx context.Context, input VoteInput) (*models.Battle, error) {
	if err := input.Ratings.validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lockBattle(input.BattleID)
	defer unlock()

	battle, err := s.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	judge, err := s.userRepo.GetByID(ctx, input.JudgeID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrJudgeNotFound
		}
		return nil, fmt.Errorf("failed to load judge %d: %w", input.JudgeID, err)
	}

	side := battle.Side(input.ParticipantID)
	if side == 0 {
		return nil, ErrParticipantNotInBattle
	}
	if battle.WinnerID != nil {
		return nil, ErrBattleAlreadyResolved
	}
	if battle.JudgedBy(side, judge.ID) {
		return nil, ErrDuplicateVote
	}

	score := models.Score{
		BattleID:      battle.ID,
		ParticipantID: input.ParticipantID,
		JudgeID:       judge.ID,
		JudgeNickname: judge.Nickname,
		Filing:        input.Ratings.Filing,
		Technique:     input.Ratings.Technique,
		Musicality:    input.Ratings.Musicality,
		Originality:   input.Ratings.Originality,
	}

	err = runInTx(ctx, s.db, s.logger, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.scoreRepo.Create(ctx, exec, &score); err != nil {
			if errors.Is(err, repositories.ErrScoreConflict) {
				return ErrDuplicateVote
			}
			return err
		}
		battle.AddScore(score)
		return s.battleRepo.Update(ctx, exec, battle)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VoteRecorded(battle.Stage)
	s.logger.Info("vote recorded",
		slog.Int("battle_id", battle.ID),
		slog.Int("participant_id", input.ParticipantID),
		slog.Int("judge_id", judge.ID),
		slog.Int("total", score.Total()))

	judgeCount, err := s.judges.CountJudges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count judges: %w", err)
	}

	if err := s.advance(ctx, battle.ID, judgeCount); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return s.battleView(ctx, battle.ID)
}
