package services

import (
	"context"

	"github.com/Dosada05/battle-system/models"
)

// TournamentCache - кеш собранного турнира. GetTournament возвращает (nil, nil) при промахе.
// Каждый Invalidate увеличивает поколение; SetTournament с устаревшим поколением
// ничего не записывает.
type TournamentCache interface {
	GetTournament(ctx context.Context) (*models.Event, error)
	Generation(ctx context.Context) (int64, error)
	SetTournament(ctx context.Context, generation int64, event *models.Event) error
	Invalidate(ctx context.Context) error
}

type noopTournamentCache struct{}

func NewNoopTournamentCache() TournamentCache { return noopTournamentCache{} }

func (noopTournamentCache) GetTournament(context.Context) (*models.Event, error)      { return nil, nil }
func (noopTournamentCache) Generation(context.Context) (int64, error)                 { return 0, nil }
func (noopTournamentCache) SetTournament(context.Context, int64, *models.Event) error { return nil }
func (noopTournamentCache) Invalidate(context.Context) error                          { return nil }
