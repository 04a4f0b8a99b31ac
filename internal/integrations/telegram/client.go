package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client клиент Telegram Bot API для отправки уведомлений
type Client struct {
	apiBase    string
	botToken   string
	chatID     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Telegram
// Пустой токен или chat id дают клиент, который откажет в отправке,
// это позволяет держать уведомления выключенными без отдельного флага
func NewClient(botToken, chatID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		apiBase:  defaultAPIBase,
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Configured возвращает true, если клиенту заданы токен и chat id
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage отправляет HTML-сообщение в настроенный чат
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      fmt.Sprintf("🚚 <b>WB Extension</b>\n\n%s", text),
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("%w: SendMessage - encode payload: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: SendMessage - create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: SendMessage - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrAPIRejected, resp.StatusCode, string(body))
	}

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: SendMessage - decode response: %v", ErrInternal, err)
	}
	if !result.OK {
		return fmt.Errorf("%w: %s", ErrAPIRejected, result.Description)
	}

	c.log.Info("Telegram notification delivered to chat %s", c.chatID)
	return nil
}
