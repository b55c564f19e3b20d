package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/psouza/agenda-api/internal/model"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		client  string
		service string
	}{
		{"normal", "Fotos - Ana", "Ana", "Fotos"},
		{"english", "Photos - Ana", "Ana", "Photos"},
		{"no separator", "Ana", "Ana", "N/A"},
		{"empty", "", "", "N/A"},
		{"extra separator splits once", "Fotos - Ana - Silva", "Ana - Silva", "Fotos"},
		{"hyphen without spaces is not a separator", "Check-up", "Check-up", "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, service := SplitTitle(tt.title)
			assert.Equal(t, tt.client, client)
			assert.Equal(t, tt.service, service)
		})
	}
}

func TestMapEventFromTitle(t *testing.T) {
	loc := time.UTC
	ev := &gcal.Event{
		Summary:  "Photos - Ana",
		Location: "Estúdio",
		HtmlLink: "https://calendar.example/evt1",
		Start:    &gcal.EventDateTime{DateTime: "2024-03-01T10:00:00Z"},
		End:      &gcal.EventDateTime{DateTime: "2024-03-01T11:00:00Z"},
	}

	rec, err := mapEvent(ev, loc)
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.Client)
	assert.Equal(t, "Photos", rec.Service)
	assert.Equal(t, "Estúdio", rec.Location)
	assert.Equal(t, "https://calendar.example/evt1", rec.EventLink)
	assert.Equal(t, 60, rec.DurationMin)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.True(t, rec.Start.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, rec.End().Equal(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)))
}

func TestMapEventPrefersExtendedProperties(t *testing.T) {
	ev := &gcal.Event{
		Summary: "Sessão - Ana - Silva",
		Start:   &gcal.EventDateTime{DateTime: "2024-03-01T10:00:00Z"},
		End:     &gcal.EventDateTime{DateTime: "2024-03-01T10:30:00Z"},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"client":  "Ana - Silva",
				"service": "Sessão",
			},
		},
	}

	rec, err := mapEvent(ev, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Ana - Silva", rec.Client)
	assert.Equal(t, "Sessão", rec.Service)
}

func TestMapEventAllDay(t *testing.T) {
	ev := &gcal.Event{
		Summary: "Workshop - Turma",
		Start:   &gcal.EventDateTime{Date: "2024-03-01"},
		End:     &gcal.EventDateTime{Date: "2024-03-02"},
	}

	rec, err := mapEvent(ev, time.UTC)
	require.NoError(t, err)
	assert.True(t, rec.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24*60, rec.DurationMin)
}

func TestMapEventMissingStart(t *testing.T) {
	_, err := mapEvent(&gcal.Event{Summary: "Fotos - Ana"}, time.UTC)
	require.Error(t, err)
}

type countingClient struct {
	upcoming int
	past     int
	created  int
}

func (c *countingClient) CreateEvent(context.Context, model.AppointmentRecord) (string, error) {
	c.created++
	return "https://calendar.example/new", nil
}

func (c *countingClient) FetchUpcoming(context.Context) ([]model.AppointmentRecord, error) {
	c.upcoming++
	return []model.AppointmentRecord{{Client: "Ana", Service: "Fotos"}}, nil
}

func (c *countingClient) FetchPast(context.Context, int) ([]model.AppointmentRecord, error) {
	c.past++
	return nil, nil
}

func TestCachedClientMemoizesLists(t *testing.T) {
	inner := &countingClient{}
	c := NewCachedClient(inner, time.Minute)

	for i := 0; i < 3; i++ {
		records, err := c.FetchUpcoming(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	assert.Equal(t, 1, inner.upcoming)

	_, err := c.FetchPast(context.Background(), 30)
	require.NoError(t, err)
	_, err = c.FetchPast(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.past)

	// A different lookback is a different window.
	_, err = c.FetchPast(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.past)
}

func TestCachedClientInvalidatesOnCreate(t *testing.T) {
	inner := &countingClient{}
	c := NewCachedClient(inner, time.Minute)

	_, err := c.FetchUpcoming(context.Background())
	require.NoError(t, err)

	_, err = c.CreateEvent(context.Background(), model.AppointmentRecord{Client: "Ana", Service: "Fotos"})
	require.NoError(t, err)

	_, err = c.FetchUpcoming(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.upcoming)
}
