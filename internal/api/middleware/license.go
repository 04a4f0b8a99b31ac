package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
)

const msgLicenseRequired = "лицензия не активирована"

// LicenseState текущее состояние активации лицензии
type LicenseState interface {
	Valid() bool
}

// RequireLicense закрывает маршруты автоматики до активации лицензии
func RequireLicense(state LicenseState) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !state.Valid() {
				handlers.RespondError(w, http.StatusForbidden, msgLicenseRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
