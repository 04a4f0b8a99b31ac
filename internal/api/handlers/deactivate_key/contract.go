package deactivate_key

import "context"

type LicenseService interface {
	Deactivate(ctx context.Context, adminPassword, keyStr string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
