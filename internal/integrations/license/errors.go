package license

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("license client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервера лицензий
	ErrInvalidResponse = errors.New("license client: invalid response")
)
