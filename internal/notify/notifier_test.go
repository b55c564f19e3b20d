package notify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/psouza/agenda-api/internal/model"
)

func TestFormatMessage(t *testing.T) {
	rec := model.AppointmentRecord{
		Start:         time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		DurationMin:   60,
		Client:        "Ana",
		Service:       "Fotos",
		Location:      "Estúdio",
		TotalAmount:   decimal.RequireFromString("350.00"),
		DepositAmount: decimal.RequireFromString("100.00"),
		PaymentMethod: "Pix",
		EventLink:     "https://calendar.example/evt1",
	}

	msg := FormatMessage(rec)
	assert.Contains(t, msg, "Cliente: Ana")
	assert.Contains(t, msg, "Serviço: Fotos")
	assert.Contains(t, msg, "Data: 01/03/2024 10:00")
	assert.Contains(t, msg, "Valor total: R$350.00")
	assert.Contains(t, msg, "Entrada: R$100.00 (Pix)")
	assert.Contains(t, msg, "Evento: https://calendar.example/evt1")
}

func TestFormatMessageOmitsEmptyFields(t *testing.T) {
	rec := model.AppointmentRecord{
		Start:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		Client:  "Ana",
		Service: "Fotos",
	}

	msg := FormatMessage(rec)
	assert.NotContains(t, msg, "Local:")
	assert.NotContains(t, msg, "Valor total:")
	assert.NotContains(t, msg, "Entrada:")
	assert.NotContains(t, msg, "Evento:")
}
