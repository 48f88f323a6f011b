package services

import (
	"context"
	"testing"

	"github.com/Dosada05/battle-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateUserInput
		role    models.UserRole
		wantErr error
	}{
		{name: "judge", input: CreateUserInput{Name: "Anna", Nickname: " anna ", Password: "secret1"}, role: models.RoleJudge},
		{name: "screen without name", input: CreateUserInput{Nickname: "screen", Password: "secret1"}, role: models.RoleScreen},
		{name: "unknown role", input: CreateUserInput{Nickname: "x", Password: "secret1"}, role: "dj", wantErr: ErrInvalidRole},
		{name: "blank nickname", input: CreateUserInput{Nickname: "  ", Password: "secret1"}, role: models.RoleJudge, wantErr: ErrNicknameRequired},
		{name: "short password", input: CreateUserInput{Nickname: "bob", Password: "12345"}, role: models.RoleJudge, wantErr: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 0)

			user, err := h.users.CreateUser(ctx, tt.input, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, ErrValidationFailed)
				assert.Empty(t, h.store.users)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, tt.role, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			assert.NotEmpty(t, user.Name)
		})
	}
}

func TestUserService_NicknameConflict(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	_, err := h.users.CreateUser(ctx, CreateUserInput{Nickname: "anna", Password: "secret1"}, models.RoleJudge)
	require.NoError(t, err)

	_, err = h.users.CreateUser(ctx, CreateUserInput{Nickname: "anna", Password: "secret2"}, models.RoleScreen)
	require.ErrorIs(t, err, ErrUserNicknameConflict)
	require.ErrorIs(t, err, ErrConflict)
}

func TestUserService_ListAndCount(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()

	_, err := h.users.CreateUser(ctx, CreateUserInput{Nickname: "screen", Password: "secret1"}, models.RoleScreen)
	require.NoError(t, err)

	judges, err := h.users.ListByRole(ctx, models.RoleJudge)
	require.NoError(t, err)
	assert.Len(t, judges, 3)

	count, err := h.users.CountJudges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = h.users.ListByRole(ctx, "dj")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_DeleteUser(t *testing.T) {
	h := newHarness(t, 2)
	ctx := context.Background()

	err := h.users.DeleteUser(ctx, h.judgeIDs[0], h.judgeIDs[0])
	require.ErrorIs(t, err, ErrSelfDeleteForbidden)
	require.ErrorIs(t, err, ErrForbiddenOperation)

	require.NoError(t, h.users.DeleteUser(ctx, h.judgeIDs[0], h.judgeIDs[1]))
	_, err = h.users.GetUser(ctx, h.judgeIDs[1])
	require.ErrorIs(t, err, ErrUserNotFound)

	err = h.users.DeleteUser(ctx, h.judgeIDs[0], 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestJudgeRemovalLowersThreshold(t *testing.T) {
	h := newHarness(t, 2)
	h.createTournament(t)
	b := h.battleAt(t, models.StageRoundOf16, 0)
	ctx := context.Background()

	_, err := h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 1, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 2}})
	require.NoError(t, err)

	require.NoError(t, h.users.DeleteUser(ctx, h.judgeIDs[0], h.judgeIDs[1]))

	// оставшийся судья закрывает баттл один
	_, err = h.battles.Vote(ctx, VoteInput{BattleID: b.ID, ParticipantID: 2, JudgeID: h.judgeIDs[0], Ratings: Ratings{Filing: 1}})
	require.NoError(t, err)

	after := h.battleAt(t, models.StageRoundOf16, 0)
	require.NotNil(t, after.WinnerID)
	assert.Equal(t, 1, *after.WinnerID)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	first, err := h.users.EnsureAdmin(ctx, "root", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	second, err := h.users.EnsureAdmin(ctx, "root", "other-password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, h.store.users, 1)
}

func TestAuthService_Login(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	auth := NewAuthService(h.userRepo)

	created, err := h.users.CreateUser(ctx, CreateUserInput{Nickname: "anna", Password: "secret1"}, models.RoleJudge)
	require.NoError(t, err)

	user, err := auth.Login(ctx, LoginInput{Nickname: " anna ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = auth.Login(ctx, LoginInput{Nickname: "anna", Password: "wrong"})
	require.ErrorIs(t, err, ErrAuthInvalidCredentials)
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = auth.Login(ctx, LoginInput{Nickname: "nobody", Password: "secret1"})
	require.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
