package handlers

import (
	"context"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/services"
)

// ------------------------
// Fake services
// ------------------------

type fakeBracketService struct {
	CreateTournamentFunc func(ctx context.Context, input services.CreateTournamentInput) (*models.Event, error)
	GetTournamentFunc    func(ctx context.Context) (*models.Event, error)
	GetBattleFunc        func(ctx context.Context, battleID int) (*models.Battle, error)
	DeleteTournamentFunc func(ctx context.Context) (bool, error)
}

func (f *fakeBracketService) CreateTournament(ctx context.Context, input services.CreateTournamentInput) (*models.Event, error) {
	return f.CreateTournamentFunc(ctx, input)
}

func (f *fakeBracketService) GetTournament(ctx context.Context) (*models.Event, error) {
	return f.GetTournamentFunc(ctx)
}

func (f *fakeBracketService) GetBattle(ctx context.Context, battleID int) (*models.Battle, error) {
	return f.GetBattleFunc(ctx, battleID)
}

func (f *fakeBracketService) DeleteTournament(ctx context.Context) (bool, error) {
	return f.DeleteTournamentFunc(ctx)
}

type fakeBattleService struct {
	VoteFunc      func(ctx context.Context, input services.VoteInput) (*models.Battle, error)
	SetWinnerFunc func(ctx context.Context, battleID, participantID int) (*models.Battle, error)
	ResetFunc     func(ctx context.Context, battleID int, input services.ResetInput) (*models.Battle, error)
}

func (f *fakeBattleService) Vote(ctx context.Context, input services.VoteInput) (*models.Battle, error) {
	return f.VoteFunc(ctx, input)
}

func (f *fakeBattleService) SetWinner(ctx context.Context, battleID, participantID int) (*models.Battle, error) {
	return f.SetWinnerFunc(ctx, battleID, participantID)
}

func (f *fakeBattleService) Reset(ctx context.Context, battleID int, input services.ResetInput) (*models.Battle, error) {
	return f.ResetFunc(ctx, battleID, input)
}

type fakeParticipantService struct {
	GetParticipantFunc   func(ctx context.Context, id int) (*models.Participant, error)
	ListParticipantsFunc func(ctx context.Context) ([]models.Participant, error)
	ActivatePhoenixFunc  func(ctx context.Context, id int) (*models.Participant, error)
}

func (f *fakeParticipantService) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	return f.GetParticipantFunc(ctx, id)
}

func (f *fakeParticipantService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return f.ListParticipantsFunc(ctx)
}

func (f *fakeParticipantService) ActivatePhoenix(ctx context.Context, id int) (*models.Participant, error) {
	return f.ActivatePhoenixFunc(ctx, id)
}

type fakeUserService struct {
	CreateUserFunc func(ctx context.Context, input services.CreateUserInput, role models.UserRole) (*models.User, error)
	GetUserFunc    func(ctx context.Context, id int) (*models.User, error)
	ListByRoleFunc func(ctx context.Context, role models.UserRole) ([]models.User, error)
	DeleteUserFunc func(ctx context.Context, currentUserID, userID int) error
}

func (f *fakeUserService) CreateUser(ctx context.Context, input services.CreateUserInput, role models.UserRole) (*models.User, error) {
	return f.CreateUserFunc(ctx, input, role)
}

func (f *fakeUserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return f.GetUserFunc(ctx, id)
}

func (f *fakeUserService) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	return f.ListByRoleFunc(ctx, role)
}

func (f *fakeUserService) DeleteUser(ctx context.Context, currentUserID, userID int) error {
	return f.DeleteUserFunc(ctx, currentUserID, userID)
}

func (f *fakeUserService) EnsureAdmin(context.Context, string, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserService) CountJudges(context.Context) (int, error) {
	return 0, nil
}

type fakeAuthService struct {
	LoginFunc func(ctx context.Context, input services.LoginInput) (*models.User, error)
}

func (f *fakeAuthService) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	return f.LoginFunc(ctx, input)
}
