package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink implements PushSink by sending a message to a fixed chat.
// This is the daemon's stand-in for a native desktop notification.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSink) Push(_ context.Context, title, body string) error {
	msg := tgbotapi.NewMessage(s.chatID, title+"\n"+body)
	_, err := s.bot.Send(msg)
	return err
}
