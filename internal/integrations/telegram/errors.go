package telegram

import "errors"

var (
	// ErrNotConfigured возвращается, когда токен бота или chat id не заданы
	ErrNotConfigured = errors.New("telegram client: bot token or chat id is not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrAPIRejected возвращается, когда Bot API вернул ошибку
	ErrAPIRejected = errors.New("telegram client: api rejected request")
)
