package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/battle-system/repositories"
)

// runInTx выполняет fn в транзакции. Без db (в тестах) fn получает nil-исполнитель
// и репозитории работают напрямую.
func runInTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(ctx context.Context, exec repositories.SQLExecutor) error) (txErr error) {
	if db == nil {
		return fn(ctx, nil)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	txErr = fn(ctx, tx)
	return txErr
}

func intPtr(v int) *int {
	return &v
}
