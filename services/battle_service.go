package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/metrics"
	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
)

// Ratings - четыре критерия оценки судьи.
type Ratings struct {
	Filing      int `json:"filing"`
	Technique   int `json:"technique"`
	Musicality  int `json:"musicality"`
	Originality int `json:"originality"`
}

func (r Ratings) validate() error {
	if r.Filing < 0 || r.Technique < 0 || r.Musicality < 0 || r.Originality < 0 {
		return ErrInvalidScore
	}
	return nil
}

type VoteInput struct {
	BattleID      int
	ParticipantID int
	JudgeID       int
	Ratings       Ratings
}

type ResetInput struct {
	Participant1Time int `json:"participant_1_time"`
	Participant2Time int `json:"participant_2_time"`
}

// JudgeCounter сообщает текущее число судей. Баттл считается оцененным,
// когда у каждой стороны ровно столько оценок.
type JudgeCounter interface {
	CountJudges(ctx context.Context) (int, error)
}

// BattleService - голосование, ручное назначение победителя и сброс баттла.
type BattleService interface {
	Vote(ctx context.Context, input VoteInput) (*models.Battle, error)
	SetWinner(ctx context.Context, battleID, participantID int) (*models.Battle, error)
	Reset(ctx context.Context, battleID int, input ResetInput) (*models.Battle, error)
}

type BattleServiceDeps struct {
	DB              *sql.DB
	EventRepo       repositories.EventRepository
	BattleRepo      repositories.BattleRepository
	ScoreRepo       repositories.ScoreRepository
	ParticipantRepo repositories.ParticipantRepository
	UserRepo        repositories.UserRepository
	Judges          JudgeCounter
	Locks           *BracketLocks
	Cache           TournamentCache
	Metrics         metrics.Recorder
	Logger          *slog.Logger
}

type battleService struct {
	bracketReader
	db       *sql.DB
	userRepo repositories.UserRepository
	judges   JudgeCounter
	locks    *BracketLocks
	metrics  metrics.Recorder
}

func NewBattleService(deps BattleServiceDeps) BattleService {
	if deps.Locks == nil {
		deps.Locks = NewBracketLocks()
	}
	if deps.Cache == nil {
		deps.Cache = NewNoopTournamentCache()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoop()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &battleService{
		bracketReader: bracketReader{
			eventRepo:       deps.EventRepo,
			battleRepo:      deps.BattleRepo,
			scoreRepo:       deps.ScoreRepo,
			participantRepo: deps.ParticipantRepo,
			cache:           deps.Cache,
			logger:          deps.Logger,
		},
		db:       deps.DB,
		userRepo: deps.UserRepo,
		judges:   deps.Judges,
		locks:    deps.Locks,
		metrics:  deps.Metrics,
	}
}

// SetWinner назначает победителя вручную, минуя судейство.
func (s *battleService) SetWinner(ctx context.Context, battleID, participantID int) (*models.Battle, error) {
	unlock := s.locks.lockBattle(battleID)
	defer unlock()

	battle, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.participantRepo.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant %d: %w", participantID, err)
	}

	if battle.WinnerID != nil {
		return nil, ErrBattleAlreadyResolved
	}
	if !battle.HasParticipant(participantID) {
		return nil, ErrParticipantNotInBattle
	}

	if err := s.propagateWinner(ctx, battle, participantID); err != nil {
		return nil, err
	}

	s.metrics.BattleResolved(battle.Stage, true)
	s.logger.Info("battle winner set manually",
		slog.Int("battle_id", battle.ID),
		slog.Int("winner_id", participantID))

	s.invalidateCache(ctx)
	return s.battleView(ctx, battle.ID)
}
