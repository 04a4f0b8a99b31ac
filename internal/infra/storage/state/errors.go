package state

import "errors"

var (
	// ErrSettingNotFound возвращается, когда настройка не найдена
	ErrSettingNotFound = errors.New("state.repository: setting not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("state.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("state.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("state.repository: failed to scan row")

	// ErrEncodeValue возвращается при ошибке сериализации значения настройки
	ErrEncodeValue = errors.New("state.repository: failed to encode value")

	// ErrDecodeValue возвращается при ошибке десериализации значения настройки
	ErrDecodeValue = errors.New("state.repository: failed to decode value")
)
