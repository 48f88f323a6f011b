package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/battle-system/brackets"
	"github.com/Dosada05/battle-system/metrics"
	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
	"github.com/Dosada05/battle-system/storage"
)

type CreateTournamentInput struct {
	Name         string   `json:"name,omitempty"`
	Participants []string `json:"participants"`
}

// BracketService управляет жизненным циклом турнира: генерация, чтение, удаление.
type BracketService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Event, error)
	GetTournament(ctx context.Context) (*models.Event, error)
	GetBattle(ctx context.Context, battleID int) (*models.Battle, error)
	DeleteTournament(ctx context.Context) (bool, error)
}

type BracketServiceDeps struct {
	DB              *sql.DB
	EventRepo       repositories.EventRepository
	BattleRepo      repositories.BattleRepository
	ScoreRepo       repositories.ScoreRepository
	ParticipantRepo repositories.ParticipantRepository
	Generator       brackets.BracketGenerator
	Locks           *BracketLocks
	Cache           TournamentCache
	// Archiver может быть nil - тогда турнир удаляется без архива.
	Archiver storage.BracketArchiver
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

type bracketService struct {
	bracketReader
	db        *sql.DB
	generator brackets.BracketGenerator
	locks     *BracketLocks
	archiver  storage.BracketArchiver
	metrics   metrics.Recorder
}

func NewBracketService(deps BracketServiceDeps) BracketService {
	if deps.Generator == nil {
		deps.Generator = brackets.NewSingleEliminationGenerator(nil)
	}
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

	return &bracketService{
		bracketReader: bracketReader{
			eventRepo:       deps.EventRepo,
			battleRepo:      deps.BattleRepo,
			scoreRepo:       deps.ScoreRepo,
			participantRepo: deps.ParticipantRepo,
			cache:           deps.Cache,
			logger:          deps.Logger,
		},
		db:        deps.DB,
		generator: deps.Generator,
		locks:     deps.Locks,
		archiver:  deps.Archiver,
		metrics:   deps.Metrics,
	}
}

// CreateTournament создает событие, участников и все 15 баттлов одной транзакцией.
func (s *bracketService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Event, error) {
	unlock := s.locks.lockEvent()
	defer unlock()

	if _, err := s.getEvent(ctx); err == nil {
		return nil, ErrEventAlreadyExists
	} else if !errors.Is(err, ErrEventNotFound) {
		return nil, err
	}

	generated, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Participants: input.Participants})
	if err != nil {
		if errors.Is(err, brackets.ErrInvalidRoster) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
		return nil, fmt.Errorf("failed to generate bracket: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = models.DefaultEventName
	}

	err = runInTx(ctx, s.db, s.logger, func(ctx context.Context, exec repositories.SQLExecutor) error {
		event := &models.Event{Name: name, CurrentStage: models.StageRoundOf16}
		if err := s.eventRepo.Create(ctx, exec, event); err != nil {
			if errors.Is(err, repositories.ErrEventAlreadyExists) {
				return ErrEventAlreadyExists
			}
			return err
		}

		battleIDs := make(map[string]int, len(generated))
		for _, gb := range generated {
			battle := &models.Battle{
				EventID:           event.ID,
				Stage:             gb.Stage,
				Position:          gb.Position,
				Participant1Timer: models.DefaultBattleTimer,
				Participant2Timer: models.DefaultBattleTimer,
			}

			if gb.NextUID != nil {
				nextID, ok := battleIDs[*gb.NextUID]
				if !ok {
					return fmt.Errorf("bracket battle %s references %s before it was created", gb.UID, *gb.NextUID)
				}
				battle.NextBattleID = intPtr(nextID)
			}

			p1, err := s.createParticipant(ctx, exec, gb.Participant1)
			if err != nil {
				return err
			}
			p2, err := s.createParticipant(ctx, exec, gb.Participant2)
			if err != nil {
				return err
			}
			battle.Participant1ID, battle.Participant2ID = p1, p2

			if err := s.battleRepo.Create(ctx, exec, battle); err != nil {
				return fmt.Errorf("failed to create battle %s: %w", gb.UID, err)
			}
			battleIDs[gb.UID] = battle.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.metrics.TournamentCreated()
	s.logger.Info("tournament created",
		slog.String("generator", s.generator.GetName()),
		slog.Int("battles", len(generated)))

	return s.loadTournament(ctx)
}

func (s *bracketService) createParticipant(ctx context.Context, exec repositories.SQLExecutor, name *string) (*int, error) {
	if name == nil {
		return nil, nil
	}
	p := &models.Participant{Nickname: *name, PhoenixPower: true}
	if err := s.participantRepo.Create(ctx, exec, p); err != nil {
		return nil, fmt.Errorf("failed to create participant %q: %w", *name, err)
	}
	return intPtr(p.ID), nil
}

// GetTournament отдает турнир целиком. Сначала смотрит в кеш.
func (s *bracketService) GetTournament(ctx context.Context) (*models.Event, error) {
	cached, err := s.cache.GetTournament(ctx)
	if err != nil {
		s.logger.Warn("tournament cache read failed", slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	// поколение читается до сборки: если сетку изменят во время чтения,
	// снимок не попадет в кеш
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("tournament cache generation read failed", slog.Any("error", genErr))
	}

	event, err := s.loadTournament(ctx)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		if err := s.cache.SetTournament(ctx, generation, event); err != nil {
			s.logger.Warn("tournament cache write failed", slog.Any("error", err))
		}
	}
	return event, nil
}

func (s *bracketService) GetBattle(ctx context.Context, battleID int) (*models.Battle, error) {
	return s.battleView(ctx, battleID)
}

// DeleteTournament удаляет событие (баттлы и оценки каскадом) и всех участников.
// Если настроен архив, снимок сетки сначала выгружается туда; при ошибке выгрузки
// ничего не удаляется.
func (s *bracketService) DeleteTournament(ctx context.Context) (bool, error) {
	unlock := s.locks.lockEvent()
	defer unlock()

	event, err := s.loadTournament(ctx)
	if err != nil && !errors.Is(err, ErrEventNotFound) {
		return false, err
	}

	var archived *storage.UploadResult
	if event != nil && s.archiver != nil {
		archived, err = s.archiver.Archive(ctx, event)
		if err != nil {
			return false, fmt.Errorf("failed to archive tournament before deletion: %w", err)
		}
		s.logger.Info("tournament archived", slog.String("key", archived.Key), slog.String("location", archived.Location))
	}

	err = runInTx(ctx, s.db, s.logger, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.eventRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.participantRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		// турнир остался на месте, архив больше не нужен
		if archived != nil {
			if dErr := s.archiver.Discard(ctx, archived.Key); dErr != nil {
				s.logger.Error("failed to discard tournament archive",
					slog.String("key", archived.Key), slog.Any("error", dErr))
			}
		}
		return false, err
	}

	s.invalidateCache(ctx)
	s.metrics.TournamentDeleted()
	s.logger.Info("tournament deleted")
	return true, nil
}
