package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
)

// advance определяет победителя полностью оцененного баттла.
// Состояние перечитывается из хранилища, поэтому повторный вызов безопасен.
// Вызывающий держит блокировку баттла.
func (s *battleService) advance(ctx context.Context, battleID, judgeCount int) error {
	battle, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return err
	}

	if battle.WinnerID != nil || !battle.FullyJudged(judgeCount) {
		return nil
	}

	winnerID, ok := battle.Leader()
	if !ok {
		s.metrics.BattleDraw(battle.Stage)
		s.logger.Info("battle ended in a draw",
			slog.Int("battle_id", battle.ID),
			slog.Int("total", battle.Participant1TotalScore))
		return nil
	}

	if err := s.propagateWinner(ctx, battle, winnerID); err != nil {
		return err
	}

	s.metrics.BattleResolved(battle.Stage, false)
	s.logger.Info("battle resolved",
		slog.Int("battle_id", battle.ID),
		slog.String("stage", string(battle.Stage)),
		slog.Int("winner_id", winnerID),
		slog.Int("participant_1_total", battle.Participant1TotalScore),
		slog.Int("participant_2_total", battle.Participant2TotalScore))
	return nil
}

// propagateWinner записывает победителя и двигает его по сетке:
// в финале он становится победителем события, иначе занимает первый
// свободный слот следующего баттла и увеличивает счетчик завершенных баттлов.
// Слоты следующего баттла меняются только под его блокировкой.
func (s *battleService) propagateWinner(ctx context.Context, battle *models.Battle, winnerID int) error {
	if battle.NextBattleID != nil {
		unlockNext := s.locks.lockBattle(*battle.NextBattleID)
		defer unlockNext()
	}

	unlock := s.locks.lockEvent()
	defer unlock()

	event, err := s.getEvent(ctx)
	if err != nil {
		return err
	}

	var next *models.Battle
	if battle.NextBattleID != nil {
		next, err = s.battleRepo.GetByID(ctx, *battle.NextBattleID)
		if err != nil {
			if errors.Is(err, repositories.ErrBattleNotFound) {
				return ErrNextBattleMissing
			}
			return fmt.Errorf("failed to load next battle %d: %w", *battle.NextBattleID, err)
		}
	}

	return runInTx(ctx, s.db, s.logger, func(ctx context.Context, exec repositories.SQLExecutor) error {
		battle.WinnerID = intPtr(winnerID)
		if err := s.battleRepo.Update(ctx, exec, battle); err != nil {
			return err
		}

		if next == nil {
			event.WinnerID = intPtr(winnerID)
			s.logger.Info("tournament winner determined", slog.Int("winner_id", winnerID))
			return s.eventRepo.Update(ctx, exec, event)
		}

		if !next.PlaceParticipant(winnerID) {
			if next.HasParticipant(winnerID) {
				// уже продвинут прошлым вызовом
				return nil
			}
			return ErrNextBattleFull
		}
		if err := s.battleRepo.Update(ctx, exec, next); err != nil {
			return err
		}

		event.CompletedBattlesInStage++
		for event.CompletedBattlesInStage >= event.CurrentStage.CompletionThreshold() {
			nextStage, ok := event.CurrentStage.Next()
			if !ok {
				break
			}
			s.logger.Info("tournament stage advanced",
				slog.String("from", string(event.CurrentStage)),
				slog.String("to", string(nextStage)))
			event.CurrentStage = nextStage
		}
		return s.eventRepo.Update(ctx, exec, event)
	})
}
