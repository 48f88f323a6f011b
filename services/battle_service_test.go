package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVote_Validation(t *testing.T) {
	ctx := context.Background()
	good := Ratings{Filing: 3, Technique: 3, Musicality: 3, Originality: 3}

	tests := []struct {
		name    string
		input   func(h *harness, b *models.Battle) VoteInput
		wantErr error
		kind    error
	}{
		{
			name: "battle not found",
			input: func(h *harness, b *models.Battle) VoteInput {
				return VoteInput{BattleID: 999, ParticipantID: *b.Participant1ID, JudgeID: h.judgeIDs[0], Ratings: good}
			},
			wantErr: ErrBattleNotFound,
			kind:    ErrNotFound,
		},
		{
			name: "judge not found",
			input: func(h *harness, b *models.Battle) VoteInput {
				return VoteInput{BattleID: b.ID, ParticipantID: *b.Participant1ID, JudgeID: 999, Ratings: good}
			},
			wantErr: ErrJudgeNotFound,
			kind:    ErrNotFound,
		},
		{
			name: "participant not in battle",
			input: func(h *harness, b *models.Battle) VoteInput {
				return VoteInput{BattleID: b.ID, ParticipantID: 16, JudgeID: h.judgeIDs[0], Ratings: good}
			},
			wantErr: ErrParticipantNotInBattle,
			kind:    ErrInvalidState,
		},
		{
			name: "negative rating",
			input: func(h *harness, b *models.Battle) VoteInput {
				return VoteInput{BattleID: b.ID, ParticipantID: *b.Participant1ID, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: -1}}
			},
			wantErr: ErrInvalidScore,
			kind:    ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 2)
			h.createTournament(t)
			b := h.battleAt(t, models.StageRoundOf16, 0)

			_, err := h.battles.Vote(ctx, tt.input(h, b))
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, tt.kind)
			assert.Empty(t, h.store.scores)
		})
	}
}

func TestVote_RecordsScore(t *testing.T) {
	h := newHarness(t, 2)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)

	out, err := h.battles.Vote(context.Background(), VoteInput{
		BattleID: b.ID, ParticipantID: 2, JudgeID: h.judgeIDs[1],
		Ratings: Ratings{Filing: 1, Technique: 2, Musicality: 3, Originality: 4},
	})
	require.NoError(t, err)

	assert.Empty(t, out.Participant1Scores)
	require.Len(t, out.Participant2Scores, 1)
	assert.Equal(t, "judge-2", out.Participant2Scores[0].JudgeNickname)
	assert.Equal(t, 10, out.Participant2TotalScore)
	assert.Zero(t, out.Participant1TotalScore)
	assert.Nil(t, out.WinnerID)

	stored, err := h.battleRepo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Participant2TotalScore)
}

func TestVote_DuplicateKeepsFirstScore(t *testing.T) {
	h := newHarness(t, 2)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	ctx := context.Background()

	_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 7}})
	require.NoError(t, err)

	_, err = h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 1}})
	require.ErrorIs(t, err, ErrDuplicateVote)
	require.ErrorIs(t, err, ErrConflict)

	after, err := h.bracket.GetBattle(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, after.Participant1Scores, 1)
	assert.Equal(t, 7, after.Participant1Scores[0].Filing)
	assert.Equal(t, 7, after.Participant1TotalScore)

	// тот же судья может оценить другую сторону
	_, err = h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 2, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 1}})
	require.NoError(t, err)
}

func TestVote_StorageConflictMapsToDuplicate(t *testing.T) {
	h := newHarness(t, 1)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)

	h.scoreRepo.CreateFunc = func(context.Context, *models.Score) error {
		return repositories.ErrScoreConflict
	}
	_, err := h.battles.Vote(context.Background(), VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0]})
	require.ErrorIs(t, err, ErrDuplicateVote)
}

func TestAdvancement_RoundOf16ToQuarterfinal(t *testing.T) {
	h := newHarness(t, 3)
	h.createTournament(t)

	h.resolveStage(t, models.StageRoundOf16)

	event, err := h.bracket.GetTournament(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StageQuarterfinal, event.CurrentStage)
	assert.Equal(t, 8, event.CompletedBattlesInStage)

	for q := 0; q < 4; q++ {
		qf := h.battleAt(t, models.StageQuarterfinal, q)
		require.True(t, qf.BothSlotsFilled(), "quarterfinal %d", q)
		assert.Equal(t, 4*q+1, *qf.Participant1ID)
		assert.Equal(t, 4*q+3, *qf.Participant2ID)
		assert.Nil(t, qf.WinnerID)
	}

	for pos := 0; pos < 8; pos++ {
		b := h.battleAt(t, models.StageRoundOf16, pos)
		require.NotNil(t, b.WinnerID)
		assert.Equal(t, 2*pos+1, *b.WinnerID)
		assert.Equal(t, 60, b.Participant1TotalScore)
		assert.Equal(t, 12, b.Participant2TotalScore)
	}
}

func TestAdvancement_FinalSetsEventWinner(t *testing.T) {
	h := newHarness(t, 1)
	h.createTournament(t)

	h.resolveStage(t, models.StageRoundOf16)
	h.resolveStage(t, models.StageQuarterfinal)
	assert.Equal(t, models.StageSemifinal, h.event(t).CurrentStage)
	assert.Equal(t, 12, h.event(t).CompletedBattlesInStage)

	h.resolveStage(t, models.StageSemifinal)
	assert.Equal(t, models.StageFinal, h.event(t).CurrentStage)
	assert.Equal(t, 14, h.event(t).CompletedBattlesInStage)

	final := h.battleAt(t, models.StageFinal, 0)
	assert.Equal(t, 1, *final.Participant1ID)
	assert.Equal(t, 9, *final.Participant2ID)

	h.judgeBattle(t, final.ID, 9)

	event, err := h.bracket.GetTournament(context.Background())
	require.NoError(t, err)
	require.NotNil(t, event.WinnerID)
	assert.Equal(t, 9, *event.WinnerID)
	require.NotNil(t, event.Winner)
	assert.Equal(t, "dancer-08", event.Winner.Nickname)
	assert.Equal(t, 14, event.CompletedBattlesInStage, "final does not touch the counter")
	assert.Equal(t, models.StageFinal, event.CurrentStage)
}

func TestAdvancement_Draw(t *testing.T) {
	h := newHarness(t, 2)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	ctx := context.Background()

	for _, j := range h.judgeIDs {
		for _, p := range []int{1, 2} {
			_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: p, JudgeID: j, Ratings: Ratings{Filing: 4, Technique: 4}})
			require.NoError(t, err)
		}
	}

	after := h.battleAt(t, models.StageRoundOf16, 0)
	assert.Nil(t, after.WinnerID)
	assert.Equal(t, after.Participant1TotalScore, after.Participant2TotalScore)

	qf := h.battleAt(t, models.StageQuarterfinal, 0)
	assert.Nil(t, qf.Participant1ID)
	assert.Nil(t, qf.Participant2ID)
	assert.Zero(t, h.event(t).CompletedBattlesInStage)

	// ничья не дает голосовать повторно
	_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 1}})
	require.ErrorIs(t, err, ErrDuplicateVote)
}

func TestAdvancement_WinnerIsImmutable(t *testing.T) {
	h := newHarness(t, 1)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	h.judgeBattle(t, b.ID, 2)

	// новый судья появился после завершения баттла
	extra := &models.User{Nickname: "late-judge", Role: models.RoleJudge}
	require.NoError(t, h.userRepo.Create(context.Background(), extra))

	_, err := h.battles.Vote(context.Background(), VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: extra.ID, Ratings: Ratings{Filing: 100}})
	require.ErrorIs(t, err, ErrBattleAlreadyResolved)

	_, err = h.battles.SetWinner(context.Background(), b.ID, 1)
	require.ErrorIs(t, err, ErrConflict)

	after := h.battleAt(t, models.StageRoundOf16, 0)
	assert.Equal(t, 2, *after.WinnerID)
}

func TestAdvance_Idempotent(t *testing.T) {
	h := newHarness(t, 1)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	h.judgeBattle(t, b.ID, 1)

	svc := h.battles.(*battleService)
	require.NoError(t, svc.advance(context.Background(), b.ID, 1))
	require.NoError(t, svc.advance(context.Background(), b.ID, 1))

	assert.Equal(t, 1, h.event(t).CompletedBattlesInStage)
	qf := h.battleAt(t, models.StageQuarterfinal, 0)
	assert.Equal(t, 1, *qf.Participant1ID)
	assert.Nil(t, qf.Participant2ID)
}

func TestAdvance_RecoversAfterPartialWrite(t *testing.T) {
	h := newHarness(t, 1)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	ctx := context.Background()

	_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 9}})
	require.NoError(t, err)

	// оценка сохранилась, а обновление баттла упало
	h.battleRepo.UpdateFunc = func(context.Context, *models.Battle) error { return assert.AnError }
	_, err = h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 2, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 3}})
	require.ErrorIs(t, err, assert.AnError)
	h.battleRepo.UpdateFunc = nil

	stored, err := h.battleRepo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Participant2TotalScore)

	require.NoError(t, h.battles.(*battleService).advance(ctx, b.ID, 1))

	after := h.battleAt(t, models.StageRoundOf16, 0)
	require.NotNil(t, after.WinnerID)
	assert.Equal(t, 1, *after.WinnerID)
	assert.Equal(t, 3, after.Participant2TotalScore)
}

func TestVote_ConcurrentJudges(t *testing.T) {
	h := newHarness(t, 6)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2*len(h.judgeIDs))
	for i, j := range h.judgeIDs {
		for _, p := range []int{1, 2} {
			wg.Add(1)
			go func(judgeID, participantID, bonus int) {
				defer wg.Done()
				r := Ratings{Filing: 1}
				if participantID == 1 {
					r.Technique = 1 + bonus
				}
				_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: participantID, JudgeID: judgeID, Ratings: r})
				errs <- err
			}(j, p, i)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	after := h.battleAt(t, models.StageRoundOf16, 0)
	assert.Len(t, after.Participant1Scores, 6)
	assert.Len(t, after.Participant2Scores, 6)
	require.NotNil(t, after.WinnerID)
	assert.Equal(t, 1, *after.WinnerID)
	assert.Equal(t, 1, h.event(t).CompletedBattlesInStage)
}

// voteWhile ставит оценку participantID в баттле battleID и посреди записи
// оценки запускает concurrent. Запись ждет concurrent не дольше timeout.
func voteWhile(t *testing.T, h *harness, battleID, participantID int, concurrent func() error) {
	t.Helper()
	ctx := context.Background()

	var once sync.Once
	done := make(chan error, 1)
	h.scoreRepo.CreateFunc = func(_ context.Context, sc *models.Score) error {
		once.Do(func() {
			go func() { done <- concurrent() }()
			select {
			case err := <-done:
				done <- err
			case <-time.After(100 * time.Millisecond):
			}
		})
		return h.scoreRepo.insert(sc)
	}
	defer func() { h.scoreRepo.CreateFunc = nil }()

	_, err := h.battles.Vote(ctx, VoteInput{
		BattleID: battleID, ParticipantID: participantID, JudgeID: h.judgeIDs[0],
		Ratings: Ratings{Filing: 2, Technique: 2, Musicality: 2, Originality: 2},
	})
	require.NoError(t, err)
	require.NoError(t, <-done)
}

func TestVote_ParentSlotsSurviveChildChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("sibling advances during a vote", func(t *testing.T) {
		h := newHarness(t, 2)
		h.createTournament(t)
		first := h.battleAt(t, models.StageRoundOf16, 0)
		second := h.battleAt(t, models.StageRoundOf16, 1)

		_, err := h.battles.SetWinner(ctx, first.ID, 1)
		require.NoError(t, err)
		parent := h.battleAt(t, models.StageQuarterfinal, 0)
		require.Nil(t, parent.Participant2ID)

		voteWhile(t, h, parent.ID, 1, func() error {
			_, err := h.battles.SetWinner(ctx, second.ID, 3)
			return err
		})

		parent = h.battleAt(t, models.StageQuarterfinal, 0)
		require.NotNil(t, parent.Participant1ID)
		require.NotNil(t, parent.Participant2ID)
		assert.Equal(t, 1, *parent.Participant1ID)
		assert.Equal(t, 3, *parent.Participant2ID)
		assert.Len(t, parent.Participant1Scores, 1)
		assert.Equal(t, 2, h.event(t).CompletedBattlesInStage)
	})

	t.Run("child reset during a vote", func(t *testing.T) {
		h := newHarness(t, 2)
		h.createTournament(t)
		first := h.battleAt(t, models.StageRoundOf16, 0)
		second := h.battleAt(t, models.StageRoundOf16, 1)

		_, err := h.battles.SetWinner(ctx, first.ID, 1)
		require.NoError(t, err)
		_, err = h.battles.SetWinner(ctx, second.ID, 3)
		require.NoError(t, err)
		parent := h.battleAt(t, models.StageQuarterfinal, 0)

		voteWhile(t, h, parent.ID, 3, func() error {
			_, err := h.battles.Reset(ctx, first.ID, ResetInput{Participant1Time: 60, Participant2Time: 60})
			return err
		})

		parent = h.battleAt(t, models.StageQuarterfinal, 0)
		assert.Nil(t, parent.Participant1ID)
		require.NotNil(t, parent.Participant2ID)
		assert.Equal(t, 3, *parent.Participant2ID)
		assert.Len(t, parent.Participant2Scores, 1)
		assert.Equal(t, 1, h.event(t).CompletedBattlesInStage)
	})
}

func TestSetWinner(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates like judging", func(t *testing.T) {
		h := newHarness(t, 3)
		h.createTournament(t)
		b := h.battleAt(t, models.StageRoundOf16, 1)

		out, err := h.battles.SetWinner(ctx, b.ID, 4)
		require.NoError(t, err)
		require.NotNil(t, out.Winner)
		assert.Equal(t, "dancer-03", out.Winner.Nickname)

		qf := h.battleAt(t, models.StageQuarterfinal, 0)
		assert.Equal(t, 4, *qf.Participant1ID, "first free slot is used")
		assert.Equal(t, 1, h.event(t).CompletedBattlesInStage)
	})

	t.Run("errors", func(t *testing.T) {
		h := newHarness(t, 1)
		h.createTournament(t)
		b := h.battleAt(t, models.StageRoundOf16, 0)

		_, err := h.battles.SetWinner(ctx, 999, 1)
		require.ErrorIs(t, err, ErrBattleNotFound)

		_, err = h.battles.SetWinner(ctx, b.ID, 999)
		require.ErrorIs(t, err, ErrParticipantNotFound)

		_, err = h.battles.SetWinner(ctx, b.ID, 5)
		require.ErrorIs(t, err, ErrInvalidState)

		qf := h.battleAt(t, models.StageQuarterfinal, 0)
		_, err = h.battles.SetWinner(ctx, qf.ID, 1)
		require.ErrorIs(t, err, ErrParticipantNotInBattle)
	})
}
