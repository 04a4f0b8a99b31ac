package get_autocatch_status

import "github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"

type AutocatchController interface {
	Status() autocatch.Status
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
