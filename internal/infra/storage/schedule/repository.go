package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const tableName = "staff_schedules"

// Repository чтение недельного расписания мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStaff возвращает все записи недельного расписания мастера,
// отсортированные по дню недели (0 = воскресенье) и времени начала
func (r *Repository) GetByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.WeeklySchedule, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"day_of_week",
		"start_time",
		"end_time",
	).
		From(tableName).
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func scanSchedules(rows *sql.Rows) ([]domain.WeeklySchedule, error) {
	schedules := make([]domain.WeeklySchedule, 0)

	for rows.Next() {
		var (
			entry     domain.WeeklySchedule
			dayOfWeek int
		)

		err := rows.Scan(
			&entry.ID,
			&entry.StaffID,
			&dayOfWeek,
			&entry.StartTime,
			&entry.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSchedules - scan row: %v", ErrScanRow, err)
		}

		if dayOfWeek < int(time.Sunday) || dayOfWeek > int(time.Saturday) {
			return nil, fmt.Errorf("%w: scanSchedules - day_of_week %d out of range for entry %s",
				ErrScanRow, dayOfWeek, entry.ID)
		}
		entry.Weekday = time.Weekday(dayOfWeek)

		schedules = append(schedules, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSchedules - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}
