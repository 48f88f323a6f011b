package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type CreateUserInput struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput, role models.UserRole) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	DeleteUser(ctx context.Context, currentUserID, userID int) error
	// EnsureAdmin создает администратора, если пользователя с таким ником нет.
	EnsureAdmin(ctx context.Context, nickname, password string) (*models.User, error)
	CountJudges(ctx context.Context) (int, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput, role models.UserRole) (*models.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = nickname
	}

	user := &models.User{
		Name:         name,
		Nickname:     nickname,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserNicknameConflict) {
			return nil, ErrUserNicknameConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", slog.Int("user_id", user.ID), slog.String("role", string(role)))
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) DeleteUser(ctx context.Context, currentUserID, userID int) error {
	if currentUserID == userID {
		return ErrSelfDeleteForbidden
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	s.logger.Info("user deleted", slog.Int("user_id", userID), slog.Int("deleted_by", currentUserID))
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, nickname, password string) (*models.User, error) {
	existing, err := s.userRepo.GetByNickname(ctx, strings.TrimSpace(nickname))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up admin %q: %w", nickname, err)
	}
	return s.CreateUser(ctx, CreateUserInput{Nickname: nickname, Password: password}, models.RoleAdmin)
}

func (s *userService) CountJudges(ctx context.Context) (int, error) {
	return s.userRepo.CountByRole(ctx, models.RoleJudge)
}
