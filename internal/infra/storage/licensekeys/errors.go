package licensekeys

import "errors"

var (
	// ErrKeyNotFound возвращается, когда ключ не найден
	ErrKeyNotFound = errors.New("licensekeys.repository: license key not found")

	// ErrKeyExists возвращается при попытке вставить уже существующий ключ
	ErrKeyExists = errors.New("licensekeys.repository: license key already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("licensekeys.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("licensekeys.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("licensekeys.repository: failed to scan row")
)
