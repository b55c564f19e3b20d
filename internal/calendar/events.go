package calendar

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/psouza/agenda-api/internal/model"
)

// Private extended-property keys written on events created by this app.
const (
	propClient  = "client"
	propService = "service"
)

const titleSeparator = " - "

// SplitTitle parses the "{service} - {client}" title contract. A title
// without the separator yields the whole title as client and the "N/A"
// sentinel as service. A client or service name containing " - " corrupts
// the split; events created here carry structured properties instead.
func SplitTitle(title string) (client, service string) {
	parts := strings.SplitN(title, titleSeparator, 2)
	if len(parts) < 2 {
		return strings.TrimSpace(title), model.ServiceNoneSentinel
	}
	return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
}

// mapEvent normalizes a provider event into the local row shape. Client
// and service come from the private extended properties when present and
// from the title split otherwise.
func mapEvent(ev *calendar.Event, loc *time.Location) (model.AppointmentRecord, error) {
	var rec model.AppointmentRecord

	start, err := parseEventTime(ev.Start, loc)
	if err != nil {
		return rec, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	rec.Start = start

	if end, err := parseEventTime(ev.End, loc); err == nil {
		if d := end.Sub(start); d > 0 {
			rec.DurationMin = int(d / time.Minute)
		}
	}

	rec.Client, rec.Service = SplitTitle(ev.Summary)
	if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private != nil {
		private := ev.ExtendedProperties.Private
		if v, ok := private[propClient]; ok && v != "" {
			rec.Client = v
		}
		if v, ok := private[propService]; ok && v != "" {
			rec.Service = v
		}
	}

	rec.Location = ev.Location
	rec.EventLink = ev.HtmlLink
	rec.Status = model.StatusPending
	return rec, nil
}

func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("missing event time")
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}
	if edt.Date != "" {
		// All-day event.
		return time.ParseInLocation("2006-01-02", edt.Date, loc)
	}
	return time.Time{}, fmt.Errorf("missing event time")
}
