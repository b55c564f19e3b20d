package calendar

import (
	"context"

	"github.com/psouza/agenda-api/internal/model"
)

// Client is the calendar provider surface the rest of the application
// depends on. The google implementation is the real one; tests swap in
// fakes.
type Client interface {
	// CreateEvent inserts the appointment on the configured calendar and
	// returns the event's html link.
	CreateEvent(ctx context.Context, rec model.AppointmentRecord) (string, error)
	// FetchUpcoming lists events starting from now, ascending, first page
	// only.
	FetchUpcoming(ctx context.Context) ([]model.AppointmentRecord, error)
	// FetchPast lists events from lookbackDays ago up to now, ascending,
	// first page only.
	FetchPast(ctx context.Context, lookbackDays int) ([]model.AppointmentRecord, error)
}
