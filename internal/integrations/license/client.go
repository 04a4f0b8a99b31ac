package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Client клиент сервера лицензий
type Client struct {
	verifyURL  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента лицензий
func NewClient(verifyURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type verifyRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// Verify проверяет лицензионный ключ на сервере лицензий
// Невалидный ключ не является ошибкой транспорта: результат с
// Valid=false возвращается без error
func (c *Client) Verify(ctx context.Context, key string) (*domain.LicenseVerification, error) {
	payload, err := json.Marshal(verifyRequest{LicenseKey: key})
	if err != nil {
		return nil, fmt.Errorf("%w: Verify - encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: Verify - create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Verify - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Сервер лицензий отвечает телом с valid=false и на 4xx статусы,
	// поэтому декодируем ответ для любого кода
	var result domain.LicenseVerification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: Verify - decode response (status %d): %v", ErrInvalidResponse, resp.StatusCode, err)
	}

	if result.Valid {
		c.log.Info("License key verified, %d days left", result.DaysLeft)
	} else {
		c.log.Warn("License key rejected: %s", result.Error)
	}
	return &result, nil
}
