package start_redistribute

import "github.com/m04kA/WB-SupplyBot/internal/domain"

// StartRedistributeRequest параметры перераспределения остатков
type StartRedistributeRequest struct {
	Article       string `json:"article"`
	Quantity      int    `json:"quantity"`
	WarehouseFrom string `json:"warehouseFrom"`
	WarehouseTo   string `json:"warehouseTo"`
}

func (r StartRedistributeRequest) ToSettings() domain.RedistributionSettings {
	return domain.RedistributionSettings{
		Article:       r.Article,
		Quantity:      r.Quantity,
		WarehouseFrom: r.WarehouseFrom,
		WarehouseTo:   r.WarehouseTo,
	}
}
