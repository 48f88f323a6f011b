package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/battle-system/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNicknameConflict = errors.New("user nickname conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
	Delete(ctx context.Context, id int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

var userColumns = []string{"id", "name", "nickname", "role", "password_hash", "created_at"}

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Nickname, &u.Role, &u.PasswordHash, &u.CreatedAt)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, nickname, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Nickname,
		user.Role,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_nickname_key" {
			return ErrUserNicknameConflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *postgresUserRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return r.getOne(ctx, sq.Eq{"nickname": nickname})
}

func (r *postgresUserRepository) getOne(ctx context.Context, where sq.Eq) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var user models.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, args...), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (r *postgresUserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"role": role}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %s: %w", role, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	query, args, err := countUsersByRoleQuery(role).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users by role %s: %w", role, err)
	}
	return count, nil
}

func countUsersByRoleQuery(role models.UserRole) sq.SelectBuilder {
	return psql.Select("COUNT(*)").From("users").Where(sq.Eq{"role": role})
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
