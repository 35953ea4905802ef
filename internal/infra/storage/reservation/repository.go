package reservation

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

const reservationColumns = "id, customer_id, salon_id, service_id, staff_id, booking_date, start_time, duration_minutes, status, cancelled_at, created_at, updated_at"

// Repository репозиторий бронирований — единственный источник истины
// о занятости слотов (ReservationLedger)
type Repository struct {
	db  DBExecutor
	txm TransactionManager
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, txm TransactionManager) *Repository {
	return &Repository{db: db, txm: txm}
}

// ListRange получает подтверждённые бронирования мастера за период одним
// запросом, отсортированные по (booking_date, start_time) ASC.
// Поиск слотов обязан вызывать этот метод один раз на весь горизонт,
// а не по запросу на каждый день.
func (r *Repository) ListRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"salon_id",
		"service_id",
		"staff_id",
		"booking_date",
		"start_time",
		"duration_minutes",
		"status",
		"cancelled_at",
		"created_at",
		"updated_at",
	).
		From("reservations").
		Where(squirrel.Eq{"staff_id": staffID, "status": domain.ReservationConfirmed}).
		Where(squirrel.GtOrEq{"booking_date": from}).
		Where(squirrel.LtOrEq{"booking_date": to}).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"salon_id",
		"service_id",
		"staff_id",
		"booking_date",
		"start_time",
		"duration_minutes",
		"status",
		"cancelled_at",
		"created_at",
		"updated_at",
	).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// TryClaim атомарно превращает слот в подтверждённое бронирование.
// Внутри сериализуемой транзакции: блокирует бронирования мастера на дату
// (FOR UPDATE), пересчитывает пересечения и вставляет запись, только если
// интервал свободен. Из конкурирующих попыток на пересекающийся интервал
// выигрывает ровно одна; остальные получают ErrSlotTaken.
func (r *Repository) TryClaim(ctx context.Context, claim domain.SlotClaim) (*domain.Reservation, error) {
	var created *domain.Reservation

	err := r.txm.DoSerializable(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		// Блокируем строки бронирований мастера на эту дату
		lockQuery, lockArgs, err := psqlbuilder.Select("id", "start_time", "duration_minutes").
			From("reservations").
			Where(squirrel.Eq{
				"staff_id":     claim.StaffID,
				"booking_date": claim.BookingDate,
				"status":       domain.ReservationConfirmed,
			}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: TryClaim - build lock query: %v", ErrBuildQuery, err)
		}

		rows, err := executor.QueryContext(txCtx, lockQuery, lockArgs...)
		if err != nil {
			return fmt.Errorf("%w: TryClaim - execute lock query: %v", ErrExecQuery, err)
		}

		taken, err := overlapsAnyRow(rows, claim.StartTime, claim.DurationMinutes)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		insertQuery, insertArgs, err := psqlbuilder.Insert("reservations").
			Columns(
				"customer_id",
				"salon_id",
				"service_id",
				"staff_id",
				"booking_date",
				"start_time",
				"duration_minutes",
				"status",
			).
			Values(
				claim.CustomerID,
				claim.SalonID,
				claim.ServiceID,
				claim.StaffID,
				claim.BookingDate,
				claim.StartTime,
				claim.DurationMinutes,
				domain.ReservationConfirmed,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: TryClaim - build insert query: %v", ErrBuildQuery, err)
		}

		res := &domain.Reservation{
			CustomerID:      claim.CustomerID,
			SalonID:         claim.SalonID,
			ServiceID:       claim.ServiceID,
			StaffID:         claim.StaffID,
			BookingDate:     claim.BookingDate,
			StartTime:       claim.StartTime,
			DurationMinutes: claim.DurationMinutes,
			Status:          domain.ReservationConfirmed,
		}

		var createdAt, updatedAt sql.NullTime
		err = executor.QueryRowContext(txCtx, insertQuery, insertArgs...).Scan(&res.ID, &createdAt, &updatedAt)
		if err != nil {
			return fmt.Errorf("%w: TryClaim - execute insert: %v", ErrExecQuery, err)
		}
		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		created = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// Cancel отменяет подтверждённое бронирование и возвращает освободившийся
// слот. 0 затронутых строк означает, что бронирование уже не confirmed.
func (r *Repository) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.ReservationCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.ReservationConfirmed}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Либо нет такой записи, либо она уже не confirmed
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrNotCancellable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// overlapsAnyRow проверяет, пересекается ли заявляемый интервал хотя бы
// с одной строкой результата. Интервалы полуоткрытые [start, end):
// граничащие интервалы пересечением не считаются.
func overlapsAnyRow(rows *sql.Rows, start types.TimeString, durationMinutes int) (bool, error) {
	defer rows.Close()

	claimStart, err := start.TotalMinutes()
	if err != nil {
		return false, fmt.Errorf("%w: TryClaim - parse claim start: %v", ErrScanRow, err)
	}
	claimEnd := claimStart + durationMinutes

	for rows.Next() {
		var (
			id       int64
			existing types.TimeString
			duration int
		)
		if err := rows.Scan(&id, &existing, &duration); err != nil {
			return false, fmt.Errorf("%w: TryClaim - scan locked row: %v", ErrScanRow, err)
		}

		existingStart, err := existing.TotalMinutes()
		if err != nil {
			return false, fmt.Errorf("%w: TryClaim - parse existing start: %v", ErrScanRow, err)
		}
		existingEnd := existingStart + duration

		if existingStart < claimEnd && existingEnd > claimStart {
			return true, nil
		}
	}

	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: TryClaim - rows error: %v", ErrScanRow, err)
	}

	return false, nil
}

func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.SalonID,
		&res.ServiceID,
		&res.StaffID,
		&res.BookingDate,
		&res.StartTime,
		&res.DurationMinutes,
		&res.Status,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.CustomerID,
			&res.SalonID,
			&res.ServiceID,
			&res.StaffID,
			&res.BookingDate,
			&res.StartTime,
			&res.DurationMinutes,
			&res.Status,
			&res.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
