package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/metrics"
	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
)

type ParticipantService interface {
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	// ActivatePhoenix тратит одноразовую способность участника.
	ActivatePhoenix(ctx context.Context, id int) (*models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	cache           TournamentCache
	metrics         metrics.Recorder
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	cache TournamentCache,
	recorder metrics.Recorder,
	logger *slog.Logger,
) ParticipantService {
	if cache == nil {
		cache = NewNoopTournamentCache()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &participantService{
		participantRepo: participantRepo,
		cache:           cache,
		metrics:         recorder,
		logger:          logger,
	}
}

func (s *participantService) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant %d: %w", id, err)
	}
	return p, nil
}

func (s *participantService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *participantService) ActivatePhoenix(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.PhoenixPower {
		return nil, ErrPhoenixPowerUsed
	}

	// условный UPDATE: из двух одновременных активаций пройдет одна
	if err := s.participantRepo.ConsumePhoenixPower(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPhoenixPowerUsed) {
			return nil, ErrPhoenixPowerUsed
		}
		return nil, err
	}
	p.PhoenixPower = false

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate tournament cache", slog.Any("error", err))
	}
	s.metrics.PhoenixActivated()
	s.logger.Info("phoenix power activated", slog.Int("participant_id", id), slog.String("nickname", p.Nickname))
	return p, nil
}
