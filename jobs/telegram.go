package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TelegramConfig holds bot credentials and the target chat.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramSender posts a text message to the admin chat.
type TelegramSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TelegramClient talks to the Telegram Bot API.
type TelegramClient struct {
	cfg    TelegramConfig
	client *http.Client
}

// NewTelegramClient constructs a client.
func NewTelegramClient(cfg TelegramConfig) *TelegramClient {
	return &TelegramClient{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

// SendMessage posts a message via the sendMessage endpoint.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": c.cfg.ChatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: sendMessage returned %d", resp.StatusCode)
	}
	return nil
}
