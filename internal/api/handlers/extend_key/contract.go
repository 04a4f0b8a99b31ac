package extend_key

import "context"

type LicenseService interface {
	Extend(ctx context.Context, adminPassword, keyStr string, days int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
