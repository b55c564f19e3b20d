package calendar

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
	"github.com/psouza/agenda-api/pkg/metrics"
)

// eventTimeLayout is a wall-clock datetime without offset; the provider
// resolves it against the TimeZone field sent alongside.
const eventTimeLayout = "2006-01-02T15:04:05"

type GoogleConfig struct {
	CredentialsFile string
	CalendarID      string
	Timezone        string
	MaxResults      int64
	ReminderMinutes int64
}

// GoogleClient talks to the Google Calendar API for a single named
// calendar, authenticated with a service-account key.
type GoogleClient struct {
	svc     *calendar.Service
	cfg     GoogleConfig
	loc     *time.Location
	metrics *metrics.Metrics
}

func NewGoogleClient(ctx context.Context, cfg GoogleConfig, m *metrics.Metrics) (*GoogleClient, error) {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 100
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, errors.Authentication(err)
	}

	return &GoogleClient{svc: svc, cfg: cfg, loc: loc, metrics: m}, nil
}

func (c *GoogleClient) CreateEvent(ctx context.Context, rec model.AppointmentRecord) (string, error) {
	event := &calendar.Event{
		Summary:  rec.Service + " - " + rec.Client,
		Location: rec.Location,
		Description: fmt.Sprintf(
			"Valor total: R$%s\nEntrada: R$%s\nForma de pagamento: %s\n",
			rec.TotalAmount.StringFixed(2),
			rec.DepositAmount.StringFixed(2),
			rec.PaymentMethod,
		),
		Start: &calendar.EventDateTime{
			DateTime: rec.Start.Format(eventTimeLayout),
			TimeZone: c.cfg.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: rec.End().Format(eventTimeLayout),
			TimeZone: c.cfg.Timezone,
		},
		// The title encodes service and client for humans; the private
		// properties carry them structurally so fetches do not have to
		// rely on the fragile " - " split for our own events.
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				propClient:  rec.Client,
				propService: rec.Service,
			},
		},
	}
	if c.cfg.ReminderMinutes > 0 {
		event.Reminders = &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: c.cfg.ReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		}
	}

	start := time.Now()
	created, err := c.svc.Events.Insert(c.cfg.CalendarID, event).Context(ctx).Do()
	c.observe("insert", start, err)
	if err != nil {
		return "", errors.RemoteAPI("event creation", err)
	}
	return created.HtmlLink, nil
}

func (c *GoogleClient) FetchUpcoming(ctx context.Context) ([]model.AppointmentRecord, error) {
	now := time.Now().In(c.loc)
	return c.list(ctx, now, time.Time{})
}

func (c *GoogleClient) FetchPast(ctx context.Context, lookbackDays int) ([]model.AppointmentRecord, error) {
	now := time.Now().In(c.loc)
	return c.list(ctx, now.AddDate(0, 0, -lookbackDays), now)
}

// list performs a single-page events.list call. The provider-side result
// cap stands in for pagination; anything past the first page is dropped.
func (c *GoogleClient) list(ctx context.Context, timeMin, timeMax time.Time) ([]model.AppointmentRecord, error) {
	call := c.svc.Events.List(c.cfg.CalendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(c.cfg.MaxResults).
		Context(ctx)
	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	start := time.Now()
	result, err := call.Do()
	c.observe("list", start, err)
	if err != nil {
		return nil, errors.RemoteAPI("event listing", err)
	}

	records := make([]model.AppointmentRecord, 0, len(result.Items))
	for _, ev := range result.Items {
		rec, err := mapEvent(ev, c.loc)
		if err != nil {
			// Skip events this app cannot represent rather than failing
			// the whole window.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *GoogleClient) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.CalendarOperations.WithLabelValues(op, status).Inc()
	c.metrics.CalendarLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
