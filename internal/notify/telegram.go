package notify

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskboard/internal/utilities"
)

// TelegramSink delivers notifications as Telegram messages. Recipients
// without a chat id are skipped; the email channel is not configured in
// this deployment and the message would have nowhere to go.
type TelegramSink struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSink(token string) (*TelegramSink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	utilities.LogInfo("notification bot authorized on account %s", api.Self.UserName)
	return &TelegramSink{api: api}, nil
}

func (s *TelegramSink) Send(ctx context.Context, to Recipient, subject, body string) error {
	if to.TelegramChatID == 0 {
		utilities.LogInfo("skip notification for %s: no telegram chat id", to.Email)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(subject), html.EscapeString(body))
	msg := tgbotapi.NewMessage(to.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
