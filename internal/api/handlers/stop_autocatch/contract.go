package stop_autocatch

import "context"

type AutocatchController interface {
	Stop(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
