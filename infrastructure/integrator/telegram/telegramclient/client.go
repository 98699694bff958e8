package telegramclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

type Client interface {
	SendMessage(ctx context.Context, chatID, text string, keyboard *InlineKeyboard) error
}

// InlineKeyboard é o teclado inline anexado à mensagem
type InlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

type InlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type sendMessageRequest struct {
	ChatID      string          `json:"chat_id"`
	Text        string          `json:"text"`
	ParseMode   string          `json:"parse_mode"`
	ReplyMarkup *InlineKeyboard `json:"reply_markup,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type TelegramClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &TelegramClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second,
		},
	}
}

// SendMessage envia uma mensagem em Markdown pelo Bot API
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string, keyboard *InlineKeyboard) error {
	request := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("erro ao serializar a requisição: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.Telegram.APIURL, c.cfg.Telegram.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationDelivery, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	var response sendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("%w: resposta inesperada: %s", domain.ErrNotificationDelivery, string(body))
	}

	if !response.OK {
		return fmt.Errorf("%w: %s", domain.ErrNotificationDelivery, response.Description)
	}

	return nil
}
