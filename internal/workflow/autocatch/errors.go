package autocatch

import "errors"

var (
	// ErrAlreadyRunning возвращается при повторном запуске
	ErrAlreadyRunning = errors.New("autocatch: workflow is already running")

	// ErrNotRunning возвращается при остановке незапущенного воркфлоу
	ErrNotRunning = errors.New("autocatch: workflow is not running")

	// ErrInvalidInterval возвращается при неположительном интервале
	ErrInvalidInterval = errors.New("autocatch: interval must be positive")
)
