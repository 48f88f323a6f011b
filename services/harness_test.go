package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/battle-system/brackets"
	"github.com/Dosada05/battle-system/models"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store           *memStore
	eventRepo       *fakeEventRepo
	battleRepo      *fakeBattleRepo
	scoreRepo       *fakeScoreRepo
	participantRepo *fakeParticipantRepo
	userRepo        *fakeUserRepo
	cache           *fakeCache
	archiver        *fakeArchiver

	users        UserService
	bracket      BracketService
	battles      BattleService
	participants ParticipantService

	judgeIDs []int
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, judges int) *harness {
	t.Helper()

	store := newMemStore()
	h := &harness{
		store:           store,
		eventRepo:       &fakeEventRepo{s: store},
		battleRepo:      &fakeBattleRepo{s: store},
		scoreRepo:       &fakeScoreRepo{s: store},
		participantRepo: &fakeParticipantRepo{s: store},
		userRepo:        &fakeUserRepo{s: store},
		cache:           &fakeCache{},
		archiver:        &fakeArchiver{},
	}

	logger := testLogger()
	locks := NewBracketLocks()

	h.users = NewUserService(h.userRepo, logger)
	h.bracket = NewBracketService(BracketServiceDeps{
		EventRepo:       h.eventRepo,
		BattleRepo:      h.battleRepo,
		ScoreRepo:       h.scoreRepo,
		ParticipantRepo: h.participantRepo,
		Generator:       brackets.NewSingleEliminationGenerator(firstRandomizer{}),
		Locks:           locks,
		Cache:           h.cache,
		Archiver:        h.archiver,
		Logger:          logger,
	})
	h.battles = NewBattleService(BattleServiceDeps{
		EventRepo:       h.eventRepo,
		BattleRepo:      h.battleRepo,
		ScoreRepo:       h.scoreRepo,
		ParticipantRepo: h.participantRepo,
		UserRepo:        h.userRepo,
		Judges:          h.users,
		Locks:           locks,
		Cache:           h.cache,
		Logger:          logger,
	})
	h.participants = NewParticipantService(h.participantRepo, h.cache, nil, logger)

	for i := 0; i < judges; i++ {
		u := &models.User{
			Name:         fmt.Sprintf("Judge %d", i+1),
			Nickname:     fmt.Sprintf("judge-%d", i+1),
			Role:         models.RoleJudge,
			PasswordHash: "-",
		}
		require.NoError(t, h.userRepo.Create(context.Background(), u))
		h.judgeIDs = append(h.judgeIDs, u.ID)
	}
	return h
}

func testRoster() []string {
	names := make([]string, 16)
	for i := range names {
		names[i] = fmt.Sprintf("dancer-%02d", i)
	}
	return names
}

// createTournament строит сетку, в которой баттл 1/8 с позицией i получает
// участников с id 2i+1 и 2i+2.
func (h *harness) createTournament(t *testing.T) *models.Event {
	t.Helper()
	event, err := h.bracket.CreateTournament(context.Background(), CreateTournamentInput{Participants: testRoster()})
	require.NoError(t, err)
	return event
}

func (h *harness) battleAt(t *testing.T, stage models.Stage, position int) *models.Battle {
	t.Helper()
	list, err := h.battleRepo.ListByEvent(context.Background(), h.store.event.ID, &stage)
	require.NoError(t, err)
	require.Greater(t, len(list), position)

	b, err := h.bracket.GetBattle(context.Background(), list[position].ID)
	require.NoError(t, err)
	return b
}

func (h *harness) event(t *testing.T) *models.Event {
	t.Helper()
	e, err := h.eventRepo.Get(context.Background())
	require.NoError(t, err)
	return e
}

func otherSide(b *models.Battle, participantID int) int {
	if *b.Participant1ID == participantID {
		return *b.Participant2ID
	}
	return *b.Participant1ID
}

// judgeBattle: каждый судья ставит победителю 20, сопернику 4.
func (h *harness) judgeBattle(t *testing.T, battleID, winnerID int) *models.Battle {
	t.Helper()
	ctx := context.Background()

	b, err := h.bracket.GetBattle(ctx, battleID)
	require.NoError(t, err)
	loserID := otherSide(b, winnerID)

	var out *models.Battle
	for _, judgeID := range h.judgeIDs {
		_, err := h.battles.Vote(ctx, VoteInput{
			BattleID: battleID, ParticipantID: winnerID, JudgeID: judgeID,
			Ratings: Ratings{Filing: 5, Technique: 5, Musicality: 5, Originality: 5},
		})
		require.NoError(t, err)
		out, err = h.battles.Vote(ctx, VoteInput{
			BattleID: battleID, ParticipantID: loserID, JudgeID: judgeID,
			Ratings: Ratings{Filing: 1, Technique: 1, Musicality: 1, Originality: 1},
		})
		require.NoError(t, err)
	}
	return out
}

// resolveStage отдает победу первому слоту во всех баттлах стадии.
func (h *harness) resolveStage(t *testing.T, stage models.Stage) {
	t.Helper()
	for pos := 0; pos < stage.BattleCount(); pos++ {
		b := h.battleAt(t, stage, pos)
		require.NotNil(t, b.Participant1ID, "battle %d has empty slot 1", b.ID)
		h.judgeBattle(t, b.ID, *b.Participant1ID)
	}
}
