package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
)

type TelegramConfig struct {
	Token string
	// ChatID is the fixed destination chat.
	ChatID int64
	// ReplyToMessageID anchors messages under a fixed thread when set.
	ReplyToMessageID int
}

// TelegramNotifier posts appointment summaries to a fixed chat through
// the Bot API.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
	cfg TelegramConfig
}

func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.Notification("telegram", err)
	}
	return &TelegramNotifier{bot: bot, cfg: cfg}, nil
}

func (n *TelegramNotifier) Channel() string { return "telegram" }

func (n *TelegramNotifier) Notify(_ context.Context, rec model.AppointmentRecord) error {
	msg := tgbotapi.NewMessage(n.cfg.ChatID, FormatMessage(rec))
	if n.cfg.ReplyToMessageID != 0 {
		msg.ReplyToMessageID = n.cfg.ReplyToMessageID
	}
	if _, err := n.bot.Send(msg); err != nil {
		return errors.Notification("telegram", err)
	}
	return nil
}
