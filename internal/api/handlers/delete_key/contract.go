package delete_key

import "context"

type LicenseService interface {
	Delete(ctx context.Context, adminPassword, keyStr string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
