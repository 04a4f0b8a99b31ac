package supplies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Client клиент API коэффициентов приемки складов
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента коэффициентов
func NewClient(baseURL, apiToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetWarehouseCoefficients получает коэффициенты приемки и собирает
// их в список складов с доступными датами
// В выдачу попадают только даты с бесплатной или однократной приемкой,
// на которые разрешена выгрузка
func (c *Client) GetWarehouseCoefficients(ctx context.Context) ([]domain.Warehouse, error) {
	if c.apiToken == "" {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/api/v1/acceptance/coefficients", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWarehouseCoefficients - create request: %v", ErrInternal, err)
	}
	req.Header.Set("Authorization", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWarehouseCoefficients - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var rows []coefficientRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: GetWarehouseCoefficients - decode response: %v", ErrInvalidResponse, err)
	}

	warehouses := groupByWarehouse(rows)
	c.log.Info("Fetched acceptance coefficients: %d rows, %d warehouses with open dates", len(rows), len(warehouses))
	return warehouses, nil
}

// groupByWarehouse отбирает пригодные для автолова даты и группирует
// их по складам
func groupByWarehouse(rows []coefficientRow) []domain.Warehouse {
	byID := make(map[int64]*domain.Warehouse)
	order := make([]int64, 0)

	for _, row := range rows {
		if !acceptable(row) {
			continue
		}

		w, ok := byID[row.WarehouseID]
		if !ok {
			w = &domain.Warehouse{
				ID:              row.WarehouseID,
				Name:            row.WarehouseName,
				IsSortingCenter: row.IsSortingCenter,
			}
			byID[row.WarehouseID] = w
			order = append(order, row.WarehouseID)
		}

		w.Dates = append(w.Dates, domain.WarehouseDate{
			Date:        row.Date,
			Coefficient: row.Coefficient,
			AllowUnload: row.AllowUnload,
			BoxTypeName: row.BoxTypeName,
			BoxTypeID:   row.BoxTypeID,
			IsFree:      row.Coefficient == 0,
		})
	}

	warehouses := make([]domain.Warehouse, 0, len(order))
	for _, id := range order {
		w := byID[id]
		sort.SliceStable(w.Dates, func(i, j int) bool {
			return w.Dates[i].Date < w.Dates[j].Date
		})
		warehouses = append(warehouses, *w)
	}

	// Склады с большим числом открытых дат интереснее, показываем их первыми
	sort.SliceStable(warehouses, func(i, j int) bool {
		return len(warehouses[i].Dates) > len(warehouses[j].Dates)
	})

	return warehouses
}

// acceptable пропускает только бесплатную (x0) и однократную (x1)
// приемку с разрешенной выгрузкой
func acceptable(row coefficientRow) bool {
	if !row.AllowUnload {
		return false
	}
	return row.Coefficient == 0 || row.Coefficient == 1
}
