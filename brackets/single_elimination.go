package brackets

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Dosada05/battle-system/models"
)

// RosterSize - сколько участников нужно для полной сетки от 1/8 финала.
var RosterSize = 2 * models.StageRoundOf16.BattleCount()

// BracketBattle - узел сетки до сохранения в БД. Связи задаются через UID.
type BracketBattle struct {
	UID      string
	Stage    models.Stage
	Position int
	NextUID  *string

	Participant1 *string
	Participant2 *string
}

type SingleEliminationGenerator struct {
	rnd Randomizer
}

func NewSingleEliminationGenerator(rnd Randomizer) BracketGenerator {
	if rnd == nil {
		rnd = DefaultRandomizer()
	}
	return &SingleEliminationGenerator{rnd: rnd}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket строит дерево сверху вниз: финал, полуфиналы, четвертьфиналы, 1/8.
// Родитель всегда идет в результате раньше детей, так что при вставке в БД
// next_battle_id ребенка уже известен. Имена раздаются только баттлам 1/8:
// по два случайных имени без возвращения.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketBattle, error) {
	pool, err := normalizeRoster(params.Participants)
	if err != nil {
		return nil, err
	}

	stages := models.Stages()
	slices.Reverse(stages) // финал первым

	result := make([]*BracketBattle, 0, 2*RosterSize-1)
	var parents []*BracketBattle

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		level := make([]*BracketBattle, 0, stage.BattleCount())
		if len(parents) == 0 {
			level = append(level, &BracketBattle{UID: battleUID(stage, 0), Stage: stage})
		} else {
			for _, parent := range parents {
				for range 2 {
					next := parent.UID
					level = append(level, &BracketBattle{
						UID:      battleUID(stage, len(level)),
						Stage:    stage,
						Position: len(level),
						NextUID:  &next,
					})
				}
			}
		}

		if len(level) != stage.BattleCount() {
			return nil, fmt.Errorf("stage %s: built %d battles, expected %d", stage, len(level), stage.BattleCount())
		}
		result = append(result, level...)
		parents = level
	}

	// parents сейчас - листья (1/8 финала)
	for _, leaf := range parents {
		leaf.Participant1 = g.draw(&pool)
		leaf.Participant2 = g.draw(&pool)
	}

	return result, nil
}

func (g *SingleEliminationGenerator) draw(pool *[]string) *string {
	i := g.rnd.Intn(len(*pool))
	name := (*pool)[i]
	*pool = slices.Delete(*pool, i, i+1)
	return &name
}

func battleUID(stage models.Stage, position int) string {
	return fmt.Sprintf("%s-%d", stage, position)
}

// normalizeRoster обрезает пробелы и проверяет размер и уникальность имен.
func normalizeRoster(names []string) ([]string, error) {
	if len(names) != RosterSize {
		return nil, fmt.Errorf("%w: expected exactly %d participants, got %d", ErrInvalidRoster, RosterSize, len(names))
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: participant #%d has an empty name", ErrInvalidRoster, i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate participant name %q", ErrInvalidRoster, name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
