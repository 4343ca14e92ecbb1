package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/pkg/dbmetrics"
	"github.com/proserv/PS-BookingService/pkg/psqlbuilder"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// Repository репозиторий расписания (таблица time_slots)
// Таблица наполняется внешним источником расписания; ядро только читает слоты
// и выводит их состояние из активных бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByDateRange получает слоты профессионала за период [from, to]
// Состояние каждого слота выводится из наличия неотмененного бронирования,
// ссылающегося на него; наложение холдов выполняет вызывающая сторона
func (r *Repository) ListByDateRange(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.professional_id",
		"s.slot_date",
		"s.start_time",
		"s.price",
		"COUNT(b.id) AS active_bookings",
	).
		From("time_slots s").
		LeftJoin(`bookings b ON b.professional_id = s.professional_id
			AND b.scheduled_date = s.slot_date
			AND b.scheduled_time = s.start_time
			AND b.status <> 'cancelled'`).
		Where(squirrel.Eq{"s.professional_id": professionalID}).
		Where(squirrel.GtOrEq{"s.slot_date": from}).
		Where(squirrel.LtOrEq{"s.slot_date": to}).
		GroupBy("s.professional_id", "s.slot_date", "s.start_time", "s.price").
		OrderBy("s.slot_date ASC, s.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDateRange - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetSlot получает один слот с выведенным состоянием
func (r *Repository) GetSlot(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.professional_id",
		"s.slot_date",
		"s.start_time",
		"s.price",
		"COUNT(b.id) AS active_bookings",
	).
		From("time_slots s").
		LeftJoin(`bookings b ON b.professional_id = s.professional_id
			AND b.scheduled_date = s.slot_date
			AND b.scheduled_time = s.start_time
			AND b.status <> 'cancelled'`).
		Where(squirrel.Eq{
			"s.professional_id": professionalID,
			"s.slot_date":       date,
			"s.start_time":      startTime,
		}).
		GroupBy("s.professional_id", "s.slot_date", "s.start_time", "s.price").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSlot - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlot - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ReplaceDaySlots заменяет слоты профессионала на дату
// Вызывается источником расписания; должна выполняться в транзакции,
// чтобы читатели не видели день без слотов
func (r *Repository) ReplaceDaySlots(ctx context.Context, professionalID int64, date time.Time, slots []domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{
			"professional_id": professionalID,
			"slot_date":       date,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceDaySlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceDaySlots - execute delete: %v", ErrExecQuery, err)
	}

	if len(slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns("professional_id", "slot_date", "start_time", "price")

	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(professionalID, date, slot.StartTime, slot.Price)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceDaySlots - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceDaySlots - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var activeBookings int

	err := row.Scan(
		&slot.ProfessionalID,
		&slot.Date,
		&slot.StartTime,
		&slot.Price,
		&activeBookings,
	)
	if err != nil {
		return nil, err
	}

	if activeBookings > 0 {
		slot.State = domain.SlotBooked
	} else {
		slot.State = domain.SlotOpen
	}

	return &slot, nil
}
