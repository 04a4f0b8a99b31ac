package supplies

import "errors"

var (
	// ErrNotConfigured возвращается, когда API токен не задан
	ErrNotConfigured = errors.New("supplies client: api token is not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("supplies client: internal error")

	// ErrUnauthorized возвращается при невалидном API токене
	ErrUnauthorized = errors.New("supplies client: api token rejected")

	// ErrInvalidResponse возвращается при некорректном ответе от API
	ErrInvalidResponse = errors.New("supplies client: invalid response")
)
