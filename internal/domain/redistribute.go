package domain

// RedistributionSettings параметры перераспределения остатков между складами
// Валидируются один раз перед запуском workflow и далее неизменяемы
type RedistributionSettings struct {
	Article       string `json:"article"`
	Quantity      int    `json:"quantity"`
	WarehouseFrom string `json:"warehouseFrom"`
	WarehouseTo   string `json:"warehouseTo"`
}

// SameWarehouse возвращает true, если склад-источник совпадает со складом-получателем
// Такая настройка недопустима
func (s *RedistributionSettings) SameWarehouse() bool {
	return s.WarehouseFrom == s.WarehouseTo
}
