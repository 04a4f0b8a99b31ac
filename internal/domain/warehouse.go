package domain

// Warehouse склад с доступными датами приемки
type Warehouse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	IsSortingCenter bool            `json:"isSortingCenter"`
	Dates           []WarehouseDate `json:"dates"`
}

// WarehouseDate доступная дата приемки на складе
// Дата хранится в исходном формате API (RFC 3339), лексикографический
// порядок таких строк совпадает с хронологическим
type WarehouseDate struct {
	Date        string  `json:"date"`
	Coefficient float64 `json:"coefficient"`
	AllowUnload bool    `json:"allowUnload"`
	BoxTypeName string  `json:"boxTypeName"`
	BoxTypeID   int     `json:"boxTypeID"`
	IsFree      bool    `json:"isFree"`
}
