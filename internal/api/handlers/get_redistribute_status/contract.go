package get_redistribute_status

import "github.com/m04kA/WB-SupplyBot/internal/workflow/redistribute"

type RedistributeController interface {
	Status() redistribute.Status
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
