package recon

import (
	"fmt"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
)

// Complete flips the row at index to completed, touching nothing else.
// The caller persists the slice afterwards.
func Complete(records []model.AppointmentRecord, index int) error {
	if index < 0 || index >= len(records) {
		return errors.NotFound("appointment row", fmt.Errorf("index %d out of range [0,%d)", index, len(records)))
	}
	records[index].Status = model.StatusCompleted
	return nil
}
