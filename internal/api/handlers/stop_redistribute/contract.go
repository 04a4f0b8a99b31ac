package stop_redistribute

import "context"

type RedistributeController interface {
	Stop(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
