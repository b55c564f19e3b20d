package agenda

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/internal/notify"
	apperrors "github.com/psouza/agenda-api/pkg/errors"
	"github.com/psouza/agenda-api/pkg/logger"
)

type fakeStore struct {
	records []model.AppointmentRecord
	loadErr error
	saveErr error
	saves   int
}

func (s *fakeStore) Load() ([]model.AppointmentRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]model.AppointmentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) Save(records []model.AppointmentRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records = make([]model.AppointmentRecord, len(records))
	copy(s.records, records)
	return nil
}

type fakeCalendar struct {
	created   []model.AppointmentRecord
	createErr error
	upcoming  []model.AppointmentRecord
	past      []model.AppointmentRecord
	fetchErr  error
}

func (c *fakeCalendar) CreateEvent(_ context.Context, rec model.AppointmentRecord) (string, error) {
	if c.createErr != nil {
		return "", c.createErr
	}
	c.created = append(c.created, rec)
	return "https://calendar.example/evt", nil
}

func (c *fakeCalendar) FetchUpcoming(context.Context) ([]model.AppointmentRecord, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.upcoming, nil
}

func (c *fakeCalendar) FetchPast(context.Context, int) ([]model.AppointmentRecord, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.past, nil
}

type fakeNotifier struct {
	sent []model.AppointmentRecord
	err  error
}

func (n *fakeNotifier) Channel() string { return "fake" }

func (n *fakeNotifier) Notify(_ context.Context, rec model.AppointmentRecord) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, rec)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{
		Level:  logger.ErrorLevel,
		Output: io.Discard,
	})
}

func newTestService(store *fakeStore, cal *fakeCalendar, notifiers ...notify.Notifier) *Service {
	return NewService(store, cal, notifiers, testLogger(), nil, 30)
}

func validRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		Client:        "Ana",
		Service:       "Consultoria",
		Start:         time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local),
		DurationMin:   60,
		Location:      "Estúdio",
		TotalAmount:   decimal.RequireFromString("200.00"),
		DepositAmount: decimal.RequireFromString("50.00"),
		PaymentMethod: "Pix",
	}
}

func TestCreateAppointment(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, cal, notifier)

	rec, err := svc.CreateAppointment(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://calendar.example/evt", rec.EventLink)
	assert.Equal(t, model.StatusPending, rec.Status)
	require.Len(t, store.records, 1)
	assert.Equal(t, "Ana", store.records[0].Client)
	assert.Equal(t, rec.EventLink, store.records[0].EventLink)
	require.Len(t, notifier.sent, 1)
}

func TestCreateAppointmentPhotoDuration(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{}
	svc := newTestService(store, cal)

	req := validRequest()
	req.Service = model.ServicePhotos
	req.DurationMin = 0
	req.PhotoCount = 12

	rec, err := svc.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 60, rec.DurationMin)
}

func TestCreateAppointmentValidationBeforeRemoteCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateAppointmentRequest)
	}{
		{"missing client", func(r *model.CreateAppointmentRequest) { r.Client = "" }},
		{"missing service", func(r *model.CreateAppointmentRequest) { r.Service = "" }},
		{"missing location", func(r *model.CreateAppointmentRequest) { r.Location = "" }},
		{"short duration", func(r *model.CreateAppointmentRequest) { r.DurationMin = 0; r.PhotoCount = 0 }},
		{"deposit exceeds total", func(r *model.CreateAppointmentRequest) {
			r.DepositAmount = decimal.RequireFromString("500.00")
		}},
		{"deposit without payment method", func(r *model.CreateAppointmentRequest) { r.PaymentMethod = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			cal := &fakeCalendar{}
			svc := newTestService(store, cal)

			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateAppointment(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))
			assert.Empty(t, cal.created, "remote must not be called on validation failure")
			assert.Zero(t, store.saves, "ledger must not be touched on validation failure")
		})
	}
}

func TestCreateAppointmentRemoteFailureLeavesLedgerUntouched(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{createErr: apperrors.RemoteAPI("event creation", errors.New("quota"))}
	svc := newTestService(store, cal)

	_, err := svc.CreateAppointment(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrRemoteAPI, apperrors.CodeOf(err))
	assert.Zero(t, store.saves)
}

func TestCreateAppointmentNotificationFailureIsNonBlocking(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{}
	failing := &fakeNotifier{err: apperrors.Notification("fake", errors.New("down"))}
	working := &fakeNotifier{}
	svc := newTestService(store, cal, failing, working)

	_, err := svc.CreateAppointment(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Len(t, working.sent, 1, "remaining channels still fire")
}

func TestSyncImportsMissingPastEvents(t *testing.T) {
	existing := model.AppointmentRecord{
		Start:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		Client:  "Ana",
		Service: "Fotos",
		Status:  model.StatusPending,
	}
	store := &fakeStore{records: []model.AppointmentRecord{existing}}
	cal := &fakeCalendar{past: []model.AppointmentRecord{
		{Start: existing.Start, Client: "Ana", Service: "Photos"},
		{Start: time.Date(2024, 2, 20, 9, 0, 0, 0, time.Local), Client: "Bruno", Service: "Photos"},
	}}
	svc := newTestService(store, cal)

	imported, total, err := svc.Sync(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, total)
	require.Len(t, store.records, 2)
	assert.Equal(t, model.StatusCompleted, store.records[1].Status)
}

func TestSyncNothingToImportSkipsRewrite(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{}
	svc := newTestService(store, cal)

	imported, total, err := svc.Sync(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, imported)
	assert.Zero(t, total)
	assert.Zero(t, store.saves)
}

func TestSyncFetchFailure(t *testing.T) {
	store := &fakeStore{}
	cal := &fakeCalendar{fetchErr: apperrors.RemoteAPI("event listing", errors.New("boom"))}
	svc := newTestService(store, cal)

	_, _, err := svc.Sync(context.Background(), 30)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrRemoteAPI, apperrors.CodeOf(err))
	assert.Zero(t, store.saves)
}

func TestCompletePersists(t *testing.T) {
	store := &fakeStore{records: []model.AppointmentRecord{
		{Start: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local), Client: "Ana", Service: "Fotos", Status: model.StatusPending},
	}}
	svc := newTestService(store, &fakeCalendar{})

	rec, err := svc.Complete(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, model.StatusCompleted, store.records[0].Status)
	assert.Equal(t, 1, store.saves)
}

func TestCompleteOutOfRange(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeCalendar{})

	_, err := svc.Complete(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
	assert.Zero(t, store.saves)
}

func TestListUpcoming(t *testing.T) {
	cal := &fakeCalendar{upcoming: []model.AppointmentRecord{
		{Start: time.Now().Add(48 * time.Hour), Client: "Ana", Service: "Fotos"},
	}}
	svc := newTestService(&fakeStore{}, cal)

	records, err := svc.ListUpcoming(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
