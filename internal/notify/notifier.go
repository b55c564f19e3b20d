// Package notify delivers best-effort appointment notifications. Send
// failures are reported to the caller but must never abort the primary
// scheduling flow; the service layer logs and counts them.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/psouza/agenda-api/internal/model"
)

type Notifier interface {
	// Channel names the transport, for logs and metrics.
	Channel() string
	// Notify sends a formatted summary of the appointment.
	Notify(ctx context.Context, rec model.AppointmentRecord) error
}

// FormatMessage renders the plain-text summary shared by all channels.
func FormatMessage(rec model.AppointmentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo agendamento\n")
	fmt.Fprintf(&b, "Cliente: %s\n", rec.Client)
	fmt.Fprintf(&b, "Serviço: %s\n", rec.Service)
	fmt.Fprintf(&b, "Data: %s\n", rec.Start.Format("02/01/2006 15:04"))
	if rec.Location != "" {
		fmt.Fprintf(&b, "Local: %s\n", rec.Location)
	}
	if rec.TotalAmount.IsPositive() {
		fmt.Fprintf(&b, "Valor total: R$%s\n", rec.TotalAmount.StringFixed(2))
	}
	if rec.DepositAmount.IsPositive() {
		fmt.Fprintf(&b, "Entrada: R$%s (%s)\n", rec.DepositAmount.StringFixed(2), rec.PaymentMethod)
	}
	if rec.EventLink != "" {
		fmt.Fprintf(&b, "Evento: %s\n", rec.EventLink)
	}
	return b.String()
}
