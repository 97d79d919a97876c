package blockedtime

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const tableName = "blocked_times"

// Repository чтение таблицы blocked_times.
// Строки с is_available_slot = true являются переопределениями расписания,
// остальные блокируют время мастера.
type Repository struct {
	db   DBExecutor
	zone InstantNormalizer
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor, zone InstantNormalizer) *Repository {
	return &Repository{db: db, zone: zone}
}

// GetOverrides возвращает строки-переопределения (is_available_slot = true),
// пересекающиеся с окном
func (r *Repository) GetOverrides(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.BlockedTime, error) {
	return r.getInRange(ctx, "GetOverrides", staffID, window, true)
}

// GetBlocked возвращает блокировки времени (is_available_slot = false или NULL),
// пересекающиеся с окном
func (r *Repository) GetBlocked(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.BlockedTime, error) {
	return r.getInRange(ctx, "GetBlocked", staffID, window, false)
}

func (r *Repository) getInRange(
	ctx context.Context,
	op string,
	staffID uuid.UUID,
	window domain.Interval,
	availableSlot bool,
) ([]domain.BlockedTime, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_time",
		"end_time",
		"reason",
		"COALESCE(is_available_slot, FALSE)",
	).
		From(tableName).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Expr("COALESCE(is_available_slot, FALSE) = ?", availableSlot)).
		Where(squirrel.Lt{"start_time": window.End.UTC()}).
		Where(squirrel.Gt{"end_time": window.Start.UTC()}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return r.scanBlockedTimes(rows)
}

func (r *Repository) scanBlockedTimes(rows *sql.Rows) ([]domain.BlockedTime, error) {
	blocked := make([]domain.BlockedTime, 0)

	for rows.Next() {
		var (
			bt               domain.BlockedTime
			reason           sql.NullString
			startRaw, endRaw interface{}
		)

		err := rows.Scan(
			&bt.ID,
			&bt.StaffID,
			&startRaw,
			&endRaw,
			&reason,
			&bt.IsAvailableSlot,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlockedTimes - scan row: %v", ErrScanRow, err)
		}

		bt.Start, err = r.zone.FromStored(startRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlockedTimes - start_time of %s: %v", ErrScanRow, bt.ID, err)
		}
		bt.End, err = r.zone.FromStored(endRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlockedTimes - end_time of %s: %v", ErrScanRow, bt.ID, err)
		}

		if reason.Valid {
			bt.Reason = &reason.String
		}

		blocked = append(blocked, bt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlockedTimes - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}
