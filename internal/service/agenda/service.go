package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/psouza/agenda-api/internal/calendar"
	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/internal/notify"
	"github.com/psouza/agenda-api/internal/recon"
	apperrors "github.com/psouza/agenda-api/pkg/errors"
	"github.com/psouza/agenda-api/pkg/logger"
	"github.com/psouza/agenda-api/pkg/metrics"
	pkgvalidator "github.com/psouza/agenda-api/pkg/validator"
)

// Store is the ledger persistence surface the service needs.
type Store interface {
	Load() ([]model.AppointmentRecord, error)
	Save([]model.AppointmentRecord) error
}

// Service orchestrates the scheduling flows: create an appointment on the
// remote calendar and in the ledger, list both sides, reconcile past
// events into the ledger and flip row status. Every operation runs to
// completion inside one user interaction; nothing retries.
type Service struct {
	store           Store
	calendar        calendar.Client
	notifiers       []notify.Notifier
	validate        *validator.Validate
	log             *logger.Logger
	metrics         *metrics.Metrics
	defaultLookback int
}

func NewService(store Store, cal calendar.Client, notifiers []notify.Notifier, log *logger.Logger, m *metrics.Metrics, defaultLookbackDays int) *Service {
	if defaultLookbackDays <= 0 {
		defaultLookbackDays = 30
	}
	return &Service{
		store:           store,
		calendar:        cal,
		notifiers:       notifiers,
		validate:        pkgvalidator.New(),
		log:             log,
		metrics:         m,
		defaultLookback: defaultLookbackDays,
	}
}

// CreateAppointment validates the request, creates the calendar event,
// appends the ledger row and notifies the configured channels. Validation
// happens before any remote call; a remote failure leaves the ledger
// untouched; notification failures never abort the flow.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (model.AppointmentRecord, error) {
	var rec model.AppointmentRecord

	if err := s.validate.Struct(req); err != nil {
		return rec, apperrors.Validation("invalid appointment", pkgvalidator.Humanize(err))
	}

	duration := req.Duration()
	if duration < model.MinDurationMinutes {
		return rec, apperrors.Validation(
			fmt.Sprintf("duration must be at least %d minutes", model.MinDurationMinutes), nil)
	}
	if req.DepositAmount.IsNegative() || req.TotalAmount.IsNegative() {
		return rec, apperrors.Validation("amounts cannot be negative", nil)
	}
	if req.DepositAmount.GreaterThan(req.TotalAmount) {
		return rec, apperrors.Validation("deposit cannot exceed the total amount", nil)
	}
	if req.DepositAmount.IsPositive() && req.PaymentMethod == "" {
		return rec, apperrors.Validation("payment method is required when a deposit was taken", nil)
	}

	rec = model.AppointmentRecord{
		Start:         req.Start,
		DurationMin:   duration,
		Client:        req.Client,
		Service:       req.Service,
		Location:      req.Location,
		Address:       req.Address,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        model.StatusPending,
	}
	if err := rec.Validate(); err != nil {
		return model.AppointmentRecord{}, apperrors.Validation("invalid appointment", err)
	}

	link, err := s.calendar.CreateEvent(ctx, rec)
	if err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to create calendar event: %w", err)
	}
	rec.EventLink = link

	records, err := s.store.Load()
	if err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	records = append(records, rec)
	if err := s.store.Save(records); err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to save ledger: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreated.Inc()
	}
	s.notifyAll(ctx, rec)

	return rec, nil
}

// ListLedger returns the current ledger contents.
func (s *Service) ListLedger(_ context.Context) ([]model.AppointmentRecord, error) {
	records, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return records, nil
}

// ListUpcoming returns future events from the provider in row shape.
func (s *Service) ListUpcoming(ctx context.Context) ([]model.AppointmentRecord, error) {
	records, err := s.calendar.FetchUpcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming events: %w", err)
	}
	return records, nil
}

// Sync imports past remote events the ledger does not hold yet and
// reports the number of imported rows plus the resulting ledger size.
func (s *Service) Sync(ctx context.Context, lookbackDays int) (imported, total int, err error) {
	if lookbackDays <= 0 {
		lookbackDays = s.defaultLookback
	}

	remote, err := s.calendar.FetchPast(ctx, lookbackDays)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch past events: %w", err)
	}

	records, err := s.store.Load()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	merged, imported := recon.Sync(records, remote)
	if imported > 0 {
		if err := s.store.Save(merged); err != nil {
			return 0, 0, fmt.Errorf("failed to save ledger: %w", err)
		}
	}

	if s.metrics != nil && imported > 0 {
		s.metrics.AppointmentsImported.Add(float64(imported))
	}
	s.log.Info(fmt.Sprintf("reconciliation imported %d of %d remote events", imported, len(remote)))

	return imported, len(merged), nil
}

// Complete marks the ledger row at index as completed and persists the
// ledger.
func (s *Service) Complete(_ context.Context, index int) (model.AppointmentRecord, error) {
	records, err := s.store.Load()
	if err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	if err := recon.Complete(records, index); err != nil {
		return model.AppointmentRecord{}, err
	}

	if err := s.store.Save(records); err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to save ledger: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsDone.Inc()
	}
	return records[index], nil
}

// RecordAt exposes a single ledger row, used by the handler to key the
// completion confirmation state.
func (s *Service) RecordAt(index int) (model.AppointmentRecord, error) {
	records, err := s.store.Load()
	if err != nil {
		return model.AppointmentRecord{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	if index < 0 || index >= len(records) {
		return model.AppointmentRecord{}, apperrors.NotFound("appointment row", nil)
	}
	return records[index], nil
}

func (s *Service) notifyAll(ctx context.Context, rec model.AppointmentRecord) {
	for _, n := range s.notifiers {
		sendStart := time.Now()
		if err := n.Notify(ctx, rec); err != nil {
			if s.metrics != nil {
				s.metrics.NotificationsFailed.WithLabelValues(n.Channel()).Inc()
			}
			s.log.Error(err, "notification failed",
				"channel", n.Channel(), "client", rec.Client)
			continue
		}
		if s.metrics != nil {
			s.metrics.NotificationsSent.WithLabelValues(n.Channel()).Inc()
		}
		s.log.Debug("notification sent",
			"channel", n.Channel(), "elapsed", time.Since(sendStart).String())
	}
}
