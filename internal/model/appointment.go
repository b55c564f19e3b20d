package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
)

// IdentityLayout is the minute-precision timestamp layout used both for
// ledger persistence and for the deduplication identity key.
const IdentityLayout = "2006-01-02 15:04"

// AppointmentRecord is one row of the ledger. Times are local wall clock;
// the ledger persists no timezone. End time is derived from the duration,
// which may be zero for rows imported from sources that carried no end.
type AppointmentRecord struct {
	Start         time.Time         `json:"start"`
	DurationMin   int               `json:"duration_min"`
	Client        string            `json:"client"`
	Service       string            `json:"service"`
	Location      string            `json:"location,omitempty"`
	Address       string            `json:"address,omitempty"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	DepositAmount decimal.Decimal   `json:"deposit_amount"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	EventLink     string            `json:"event_link,omitempty"`
	Status        AppointmentStatus `json:"status"`
}

// End returns the derived end time, or the zero time when no duration is
// known.
func (r AppointmentRecord) End() time.Time {
	if r.DurationMin <= 0 {
		return time.Time{}
	}
	return r.Start.Add(time.Duration(r.DurationMin) * time.Minute)
}

// IdentityKey is the deduplication key: start at minute precision plus the
// client name. Two distinct appointments for the same client in the same
// minute collide; see the reconciler notes.
func (r AppointmentRecord) IdentityKey() string {
	return r.Start.Format(IdentityLayout) + "|" + r.Client
}

// Validate enforces the persistence invariants: client and service are
// required, and when an end exists it must come after the start.
func (r AppointmentRecord) Validate() error {
	if r.Client == "" {
		return fmt.Errorf("client is required")
	}
	if r.Service == "" {
		return fmt.Errorf("service is required")
	}
	if end := r.End(); !end.IsZero() && !r.Start.Before(end) {
		return fmt.Errorf("start must be before end")
	}
	switch r.Status {
	case StatusPending, StatusCompleted:
	default:
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

// ServicePhotos derives its duration from the photo count instead of an
// explicit duration, five minutes per photo.
const (
	ServicePhotos       = "Fotos"
	MinutesPerPhoto     = 5
	MinDurationMinutes  = 15
	ServiceNoneSentinel = "N/A"
)

type CreateAppointmentRequest struct {
	Client        string          `json:"client" validate:"required,max=200"`
	Service       string          `json:"service" validate:"required,max=200"`
	Start         time.Time       `json:"start" validate:"required"`
	DurationMin   int             `json:"duration_min" validate:"omitempty,min=15"`
	PhotoCount    int             `json:"photo_count" validate:"omitempty,min=1"`
	Location      string          `json:"location" validate:"required,max=200"`
	Address       string          `json:"address" validate:"max=300"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	PaymentMethod string          `json:"payment_method" validate:"max=40"`
}

// Duration resolves the effective duration in minutes. Photo sessions are
// sized by photo count; everything else uses the explicit duration.
func (req CreateAppointmentRequest) Duration() int {
	if req.Service == ServicePhotos && req.PhotoCount > 0 {
		return req.PhotoCount * MinutesPerPhoto
	}
	return req.DurationMin
}

type SyncRequest struct {
	LookbackDays int `json:"lookback_days" validate:"omitempty,min=1,max=365"`
}
