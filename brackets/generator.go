package brackets

import (
	"context"
	"errors"
	"math/rand/v2"
)

var ErrInvalidRoster = errors.New("invalid roster")

type GenerateBracketParams struct {
	Participants []string
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketBattle, error)

	GetName() string
}

// Randomizer - источник случайности для жеребьевки. В тестах подменяется детерминированным.
type Randomizer interface {
	// Intn возвращает число из [0, n).
	Intn(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) Intn(n int) int {
	return rand.IntN(n)
}

// DefaultRandomizer использует math/rand/v2.
func DefaultRandomizer() Randomizer {
	return defaultRandomizer{}
}
