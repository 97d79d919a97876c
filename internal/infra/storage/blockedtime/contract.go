package blockedtime

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
)

// DBExecutor поддерживает *sql.DB и *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor

// InstantNormalizer приводит значения timestamptz/text колонок к UTC (реализуется *timezone.Zone)
type InstantNormalizer interface {
	FromStored(src interface{}) (time.Time, error)
}
