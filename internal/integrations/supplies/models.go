package supplies

// coefficientRow строка ответа API коэффициентов приемки
type coefficientRow struct {
	Date            string  `json:"date"`
	Coefficient     float64 `json:"coefficient"`
	WarehouseID     int64   `json:"warehouseID"`
	WarehouseName   string  `json:"warehouseName"`
	AllowUnload     bool    `json:"allowUnload"`
	BoxTypeName     string  `json:"boxTypeName"`
	BoxTypeID       int     `json:"boxTypeID"`
	IsSortingCenter bool    `json:"isSortingCenter"`
}
