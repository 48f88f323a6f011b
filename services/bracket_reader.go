package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
	"golang.org/x/sync/errgroup"
)

// bracketReader собирает баттлы и событие вместе с оценками и участниками.
// Используется и сервисом сетки, и сервисом баттлов.
type bracketReader struct {
	eventRepo       repositories.EventRepository
	battleRepo      repositories.BattleRepository
	scoreRepo       repositories.ScoreRepository
	participantRepo repositories.ParticipantRepository
	cache           TournamentCache
	logger          *slog.Logger
}

func (r *bracketReader) getEvent(ctx context.Context) (*models.Event, error) {
	event, err := r.eventRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	return event, nil
}

// loadBattle читает баттл и раскладывает его оценки по сторонам.
// Суммы пересчитываются по сохраненным оценкам.
func (r *bracketReader) loadBattle(ctx context.Context, battleID int) (*models.Battle, error) {
	battle, err := r.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		if errors.Is(err, repositories.ErrBattleNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, fmt.Errorf("failed to load battle %d: %w", battleID, err)
	}

	scores, err := r.scoreRepo.ListByBattle(ctx, battleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores of battle %d: %w", battleID, err)
	}
	attachScores(battle, scores)
	return battle, nil
}

// battleView дополняет баттл участниками.
func (r *bracketReader) battleView(ctx context.Context, battleID int) (*models.Battle, error) {
	battle, err := r.loadBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}

	ids := []*int{battle.Participant1ID, battle.Participant2ID, battle.WinnerID}
	loaded := make(map[int]*models.Participant, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ok := loaded[*id]; ok {
			continue
		}
		p, err := r.participantRepo.GetByID(ctx, *id)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load participant %d: %w", *id, err)
		}
		loaded[*id] = p
	}
	expandBattle(battle, loaded)
	return battle, nil
}

// loadTournament собирает турнир из БД, минуя кеш.
func (r *bracketReader) loadTournament(ctx context.Context) (*models.Event, error) {
	event, err := r.getEvent(ctx)
	if err != nil {
		return nil, err
	}

	var (
		battles      []models.Battle
		scores       []models.Score
		participants []models.Participant
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		battles, err = r.battleRepo.ListByEvent(gCtx, event.ID, nil)
		if err != nil {
			return fmt.Errorf("failed to load battles: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		scores, err = r.scoreRepo.ListByEvent(gCtx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to load scores: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		participants, err = r.participantRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Participant, len(participants))
	for i := range participants {
		byID[participants[i].ID] = &participants[i]
	}

	scoresByBattle := make(map[int][]models.Score)
	for _, s := range scores {
		scoresByBattle[s.BattleID] = append(scoresByBattle[s.BattleID], s)
	}

	for i := range battles {
		attachScores(&battles[i], scoresByBattle[battles[i].ID])
		expandBattle(&battles[i], byID)
	}

	event.Battles = battles
	if event.WinnerID != nil {
		event.Winner = byID[*event.WinnerID]
	}
	return event, nil
}

func (r *bracketReader) invalidateCache(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		r.logger.Warn("failed to invalidate tournament cache", slog.Any("error", err))
	}
}

func attachScores(battle *models.Battle, scores []models.Score) {
	battle.Participant1Scores = make([]models.Score, 0)
	battle.Participant2Scores = make([]models.Score, 0)
	for _, s := range scores {
		switch battle.Side(s.ParticipantID) {
		case 1:
			battle.Participant1Scores = append(battle.Participant1Scores, s)
		case 2:
			battle.Participant2Scores = append(battle.Participant2Scores, s)
		}
	}
	battle.RecalculateTotals()
}

func expandBattle(battle *models.Battle, participants map[int]*models.Participant) {
	if battle.Participant1ID != nil {
		battle.Participant1 = participants[*battle.Participant1ID]
	}
	if battle.Participant2ID != nil {
		battle.Participant2 = participants[*battle.Participant2ID]
	}
	if battle.WinnerID != nil {
		battle.Winner = participants[*battle.WinnerID]
	}
}
