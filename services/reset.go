package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
)

// Reset возвращает баттл в исходное состояние: стирает оценки и победителя,
// выставляет таймеры и убирает участника этого баттла из следующего.
// Переход стадии события не откатывается.
func (s *battleService) Reset(ctx context.Context, battleID int, input ResetInput) (*models.Battle, error) {
	if input.Participant1Time < 0 || input.Participant2Time < 0 {
		return nil, ErrInvalidTimer
	}

	unlock := s.locks.lockBattle(battleID)
	defer unlock()

	battle, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if !battle.BothSlotsFilled() {
		return nil, ErrBattleNotReady
	}

	if battle.NextBattleID != nil {
		unlockNext := s.locks.lockBattle(*battle.NextBattleID)
		defer unlockNext()
	}

	unlockEvent := s.locks.lockEvent()
	defer unlockEvent()

	event, err := s.getEvent(ctx)
	if err != nil {
		return nil, err
	}

	var next *models.Battle
	if battle.NextBattleID != nil {
		next, err = s.battleRepo.GetByID(ctx, *battle.NextBattleID)
		if err != nil {
			if errors.Is(err, repositories.ErrBattleNotFound) {
				return nil, ErrNextBattleMissing
			}
			return nil, fmt.Errorf("failed to load next battle %d: %w", *battle.NextBattleID, err)
		}
		if next.WinnerID != nil {
			return nil, ErrNextBattleResolved
		}
	}

	hadWinner := battle.WinnerID != nil
	p1, p2 := *battle.Participant1ID, *battle.Participant2ID

	err = runInTx(ctx, s.db, s.logger, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.scoreRepo.DeleteByBattle(ctx, exec, battle.ID); err != nil {
			return err
		}

		battle.WinnerID = nil
		battle.Participant1Scores = make([]models.Score, 0)
		battle.Participant2Scores = make([]models.Score, 0)
		battle.Participant1TotalScore = 0
		battle.Participant2TotalScore = 0
		battle.Participant1Timer = input.Participant1Time
		battle.Participant2Timer = input.Participant2Time
		if err := s.battleRepo.Update(ctx, exec, battle); err != nil {
			return err
		}

		eventChanged := false
		if next != nil {
			// слот определяется по участнику, а не по номеру
			if next.RemoveParticipant(p1) || next.RemoveParticipant(p2) {
				if err := s.battleRepo.Update(ctx, exec, next); err != nil {
					return err
				}
			}
			if hadWinner && event.CompletedBattlesInStage > 0 {
				event.CompletedBattlesInStage--
				eventChanged = true
			}
		} else if hadWinner && event.WinnerID != nil {
			event.WinnerID = nil
			eventChanged = true
		}

		if eventChanged {
			return s.eventRepo.Update(ctx, exec, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BattleReset(battle.Stage)
	s.logger.Info("battle reset",
		slog.Int("battle_id", battle.ID),
		slog.Bool("had_winner", hadWinner),
		slog.Int("participant_1_time", input.Participant1Time),
		slog.Int("participant_2_time", input.Participant2Time))

	s.invalidateCache(ctx)
	return s.battleView(ctx, battle.ID)
}
