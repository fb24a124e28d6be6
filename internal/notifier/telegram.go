package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/extramurs/matchday/internal/logger"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org/bot"
	telegramTimeout    = 10 * time.Second
)

// TelegramNotifier sends announcements to a Telegram chat through the Bot API
type TelegramNotifier struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
	formatter  Formatter
}

// NewTelegramNotifier creates a Telegram notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID.
func NewTelegramNotifier(formatter Formatter) (*TelegramNotifier, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}
	return newTelegramNotifier(telegramAPIBaseURL, botToken, chatID, formatter), nil
}

func newTelegramNotifier(baseURL, botToken, chatID string, formatter Formatter) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL:    baseURL,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: telegramTimeout},
		formatter:  formatter,
	}
}

// Notify sends one message per announcement, stopping at the first failure
func (n *TelegramNotifier) Notify(ctx context.Context, announcements []Announcement) error {
	for _, a := range announcements {
		if err := n.sendMessage(ctx, n.formatter.Format(a)); err != nil {
			return fmt.Errorf("failed to send %s announcement for %s: %w", a.Kind, a.Fixture.Key(), err)
		}
		logger.Info("Telegram message sent", logger.Fields{"kind": a.Kind, "fixture": a.Fixture.Key()})
	}
	return nil
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}

	jsonData, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := sonic.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
