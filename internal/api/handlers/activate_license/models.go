package activate_license

// ActivateLicenseRequest запрос на активацию лицензионного ключа
type ActivateLicenseRequest struct {
	LicenseKey string `json:"licenseKey"`
}
