package redistribute

import "errors"

var (
	// ErrAlreadyRunning возвращается при повторном запуске
	ErrAlreadyRunning = errors.New("redistribute: workflow is already running")

	// ErrNotRunning возвращается при остановке незапущенного воркфлоу
	ErrNotRunning = errors.New("redistribute: workflow is not running")

	// ErrEmptyArticle возвращается при запуске без артикула
	ErrEmptyArticle = errors.New("redistribute: article is required")

	// ErrWarehouseNotSet возвращается, когда склад-источник или
	// склад-назначение не указан
	ErrWarehouseNotSet = errors.New("redistribute: both warehouses are required")

	// ErrSameWarehouse возвращается при совпадении складов
	ErrSameWarehouse = errors.New("redistribute: source and destination warehouses must differ")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("redistribute: quantity must be positive")
)
