package licenses

import "errors"

var (
	// ErrKeyNotFound возвращается, когда ключ не найден
	ErrKeyNotFound = errors.New("licenses: license key not found")

	// ErrWrongPassword возвращается при неверном пароле администратора
	ErrWrongPassword = errors.New("licenses: wrong admin password")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("licenses: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("licenses: internal error")
)
