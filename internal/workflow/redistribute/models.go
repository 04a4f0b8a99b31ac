package redistribute

import "github.com/m04kA/WB-SupplyBot/internal/domain"

// Status текущее состояние воркфлоу
type Status struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// Completed событие успешного перераспределения
type Completed struct {
	Settings domain.RedistributionSettings `json:"settings"`
	Count    int                           `json:"count"`
}

// persistedState резюмируемая часть состояния
type persistedState struct {
	Enabled  bool                          `json:"enabled"`
	Count    int                           `json:"count"`
	Settings domain.RedistributionSettings `json:"settings"`
}
