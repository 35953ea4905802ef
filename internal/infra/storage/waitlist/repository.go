package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

var entryColumns = []string{
	"id",
	"customer_id",
	"salon_id",
	"service_id",
	"staff_id",
	"position_in_queue",
	"status",
	"offer_token",
	"notified_at",
	"expires_at",
	"offered_staff_id",
	"offered_date",
	"offered_start_time",
	"offered_duration_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей листа ожидания
type Repository struct {
	db  DBExecutor
	txm TransactionManager
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor, txm TransactionManager) *Repository {
	return &Repository{db: db, txm: txm}
}

// Enqueue создает запись в статусе active с плотной позицией в очереди:
// MAX(position_in_queue)+1 в пределах группы, вычисленной внутри
// сериализуемой транзакции. Позиции никогда не переиспользуются.
func (r *Repository) Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	var created *domain.WaitlistEntry

	err := r.txm.DoSerializable(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		posQuery, posArgs, err := psqlbuilder.Select("COALESCE(MAX(position_in_queue), 0)").
			From("waitlist_entries").
			Where(groupWhere(entry.Group())).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Enqueue - build position query: %v", ErrBuildQuery, err)
		}

		var maxPosition int
		if err := executor.QueryRowContext(txCtx, posQuery, posArgs...).Scan(&maxPosition); err != nil {
			return fmt.Errorf("%w: Enqueue - scan max position: %v", ErrScanRow, err)
		}

		insertQuery, insertArgs, err := psqlbuilder.Insert("waitlist_entries").
			Columns(
				"customer_id",
				"salon_id",
				"service_id",
				"staff_id",
				"position_in_queue",
				"status",
			).
			Values(
				entry.CustomerID,
				entry.SalonID,
				entry.ServiceID,
				entry.StaffID,
				maxPosition+1,
				domain.WaitlistActive,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
		}

		result := *entry
		result.PositionInQueue = maxPosition + 1
		result.Status = domain.WaitlistActive

		var createdAt, updatedAt sql.NullTime
		if err := executor.QueryRowContext(txCtx, insertQuery, insertArgs...).Scan(&result.ID, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
		}
		result.CreatedAt = createdAt.Time
		result.UpdatedAt = updatedAt.Time

		created = &result
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntryRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// NextActive возвращает активную запись группы с наименьшей позицией.
// Внутри транзакции блокирует строку (FOR UPDATE).
func (r *Repository) NextActive(ctx context.Context, group domain.GroupKey) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(groupWhere(group)).
		Where(squirrel.Eq{"status": domain.WaitlistActive}).
		OrderBy("position_in_queue ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: NextActive - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntryRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveEntries
	}
	if err != nil {
		return nil, fmt.Errorf("%w: NextActive - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// HasNotified сообщает, есть ли в группе запись в статусе notified
func (r *Repository) HasNotified(ctx context.Context, group domain.GroupKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("waitlist_entries").
		Where(groupWhere(group)).
		Where(squirrel.Eq{"status": domain.WaitlistNotified}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasNotified - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasNotified - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// MarkNotified переводит активную запись в notified, атомарно записывая
// токен предложения, снимок слота и окно действия. notified_at и
// expires_at выставляются вместе. Guarded-обновление: если запись уже
// не active, возвращается ErrStaleStatus.
func (r *Repository) MarkNotified(ctx context.Context, id int64, token string, slot domain.Slot, notifiedAt, expiresAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistNotified).
		Set("offer_token", token).
		Set("notified_at", notifiedAt).
		Set("expires_at", expiresAt).
		Set("offered_staff_id", slot.StaffID).
		Set("offered_date", slot.Date).
		Set("offered_start_time", slot.StartTime).
		Set("offered_duration_minutes", slot.DurationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.WaitlistActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, query, args, "MarkNotified")
}

// TransitionStatus переводит запись из from в to. Покидая notified,
// поля предложения очищаются вместе (offer_token, notified_at,
// expires_at, снимок слота). Если запись уже не в статусе from,
// возвращается ErrStaleStatus.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.WaitlistStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("waitlist_entries").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	if from == domain.WaitlistNotified && to != domain.WaitlistNotified {
		builder = builder.
			Set("offer_token", nil).
			Set("notified_at", nil).
			Set("expires_at", nil).
			Set("offered_staff_id", nil).
			Set("offered_date", nil).
			Set("offered_start_time", nil).
			Set("offered_duration_minutes", nil)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, query, args, "TransitionStatus")
}

// CountAhead возвращает количество активных записей группы с позицией
// меньше указанной
func (r *Repository) CountAhead(ctx context.Context, group domain.GroupKey, position int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("waitlist_entries").
		Where(groupWhere(group)).
		Where(squirrel.Eq{"status": domain.WaitlistActive}).
		Where(squirrel.Lt{"position_in_queue": position}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountAhead - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountAhead - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

func (r *Repository) execGuarded(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStaleStatus
	}

	return nil
}

// groupWhere строит условие принадлежности записи группе.
// staff_id IS NULL означает группу "любой мастер".
func groupWhere(group domain.GroupKey) squirrel.Eq {
	return squirrel.Eq{
		"salon_id":   group.SalonID,
		"service_id": group.ServiceID,
		"staff_id":   group.StaffID,
	}
}

func scanEntryRow(row *sql.Row) (*domain.WaitlistEntry, error) {
	var (
		entry            domain.WaitlistEntry
		staffID          sql.NullInt64
		offerToken       sql.NullString
		notifiedAt       sql.NullTime
		expiresAt        sql.NullTime
		offeredStaffID   sql.NullInt64
		offeredDate      sql.NullTime
		offeredStart     sql.NullString
		offeredDuration  sql.NullInt64
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.CustomerID,
		&entry.SalonID,
		&entry.ServiceID,
		&staffID,
		&entry.PositionInQueue,
		&entry.Status,
		&offerToken,
		&notifiedAt,
		&expiresAt,
		&offeredStaffID,
		&offeredDate,
		&offeredStart,
		&offeredDuration,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		entry.StaffID = &staffID.Int64
	}
	if offerToken.Valid {
		entry.OfferToken = &offerToken.String
	}
	if notifiedAt.Valid {
		entry.NotifiedAt = &notifiedAt.Time
	}
	if expiresAt.Valid {
		entry.ExpiresAt = &expiresAt.Time
	}
	if offeredStaffID.Valid {
		entry.OfferedStaffID = &offeredStaffID.Int64
	}
	if offeredDate.Valid {
		entry.OfferedDate = &offeredDate.Time
	}
	if offeredStart.Valid {
		start := offeredStart.String
		if len(start) > 5 {
			start = start[:5]
		}
		ts := types.TimeString(start)
		entry.OfferedStartTime = &ts
	}
	if offeredDuration.Valid {
		duration := int(offeredDuration.Int64)
		entry.OfferedDuration = &duration
	}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}
