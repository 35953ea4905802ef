// Package timers хранит строки таймеров истечения предложений, чтобы
// отсчёты переживали рестарт процесса. Планировщик восстанавливает их
// при старте через ListPending.
package timers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timers.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timers.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timers.repository: failed to scan row")
)

// Repository репозиторий строк таймеров истечения
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория таймеров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Put сохраняет время срабатывания таймера записи (upsert:
// повторное планирование перезаписывает прежнее время)
func (r *Repository) Put(ctx context.Context, entryID int64, firesAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_timers").
		Columns("waitlist_entry_id", "fires_at").
		Values(entryID, firesAt).
		Suffix("ON CONFLICT (waitlist_entry_id) DO UPDATE SET fires_at = EXCLUDED.fires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Put - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Put - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет таймер записи. Отсутствие строки не является ошибкой:
// удаление после срабатывания идемпотентно.
func (r *Repository) Delete(ctx context.Context, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waitlist_timers").
		Where(squirrel.Eq{"waitlist_entry_id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// ListPending возвращает все невыполненные таймеры по возрастанию
// времени срабатывания
func (r *Repository) ListPending(ctx context.Context) ([]domain.ExpiryTimer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("waitlist_entry_id", "fires_at").
		From("waitlist_timers").
		OrderBy("fires_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	pending := make([]domain.ExpiryTimer, 0)
	for rows.Next() {
		var timer domain.ExpiryTimer
		if err := rows.Scan(&timer.WaitlistEntryID, &timer.FiresAt); err != nil {
			return nil, fmt.Errorf("%w: ListPending - scan row: %v", ErrScanRow, err)
		}
		pending = append(pending, timer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPending - rows error: %v", ErrScanRow, err)
	}

	return pending, nil
}
