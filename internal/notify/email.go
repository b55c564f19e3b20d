package notify

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// EmailNotifier mails appointment summaries to the operator's inbox as an
// alternate channel.
type EmailNotifier struct {
	dialer *gomail.Dialer
	cfg    EmailConfig
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (n *EmailNotifier) Channel() string { return "email" }

func (n *EmailNotifier) Notify(_ context.Context, rec model.AppointmentRecord) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", "Novo agendamento: "+rec.Service+" - "+rec.Client)
	m.SetBody("text/plain", FormatMessage(rec))

	if err := n.dialer.DialAndSend(m); err != nil {
		return errors.Notification("email", err)
	}
	return nil
}
