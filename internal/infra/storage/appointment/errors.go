package appointment

import "errors"

var (
	// ErrUnknownTable возвращается при попытке создать репозиторий для неподдерживаемой таблицы
	ErrUnknownTable = errors.New("appointment.repository: unknown table")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
