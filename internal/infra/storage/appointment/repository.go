package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Table таблица с записями клиентов
type Table string

const (
	// TableAppointments записи зарегистрированных клиентов
	TableAppointments Table = "appointments"
	// TableGuestAppointments записи гостей без аккаунта
	TableGuestAppointments Table = "guest_appointments"
)

// Repository чтение записей одной из таблиц appointments / guest_appointments.
// Схема у таблиц совпадает, поэтому адаптер один.
type Repository struct {
	db    DBExecutor
	table Table
	zone  InstantNormalizer
}

// NewRepository создает репозиторий для указанной таблицы
func NewRepository(db DBExecutor, table Table, zone InstantNormalizer) (*Repository, error) {
	switch table {
	case TableAppointments, TableGuestAppointments:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return &Repository{db: db, table: table, zone: zone}, nil
}

// Table возвращает имя таблицы репозитория
func (r *Repository) Table() Table {
	return r.table
}

// GetActiveInRange возвращает неотмененные записи мастера, пересекающиеся с окном [Start, End).
// Пересечение проверяется в SQL: start_time < window.End AND end_time > window.Start.
func (r *Repository) GetActiveInRange(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.Appointment, error) {
	inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_time",
		"end_time",
		"status",
	).
		From(string(r.table)).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings}).
		Where(squirrel.Lt{"start_time": window.End.UTC()}).
		Where(squirrel.Gt{"end_time": window.Start.UTC()}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange(%s) - execute query: %v", ErrExecQuery, r.table, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0)

	for rows.Next() {
		var (
			appt             domain.Appointment
			status           string
			startRaw, endRaw interface{}
		)

		err := rows.Scan(
			&appt.ID,
			&appt.StaffID,
			&startRaw,
			&endRaw,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments(%s) - scan row: %v", ErrScanRow, r.table, err)
		}

		appt.Start, err = r.zone.FromStored(startRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments(%s) - start_time of %s: %v", ErrScanRow, r.table, appt.ID, err)
		}
		appt.End, err = r.zone.FromStored(endRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments(%s) - end_time of %s: %v", ErrScanRow, r.table, appt.ID, err)
		}

		appt.Status = domain.AppointmentStatus(status)
		appt.Guest = r.table == TableGuestAppointments

		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments(%s) - rows error: %v", ErrScanRow, r.table, err)
	}

	return appointments, nil
}
