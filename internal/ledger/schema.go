package ledger

import (
	"fmt"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
)

// The ledger file grew columns over time. Each layout is a distinct
// version; Load detects the version from the header row and upgrades the
// parsed rows once, instead of checking per column all over the code.
const (
	schemaV1 = 1 // original layout
	schemaV2 = 2 // adds Endereço
	schemaV3 = 3 // adds Status

	currentSchema = schemaV3
)

var schemaHeaders = map[int][]string{
	schemaV1: {
		"Data e Hora", "Cliente", "Serviço", "Duração (min)", "Local",
		"Valor Total", "Entrada", "Forma de Pagamento", "Link do Evento",
	},
	schemaV2: {
		"Data e Hora", "Cliente", "Serviço", "Duração (min)", "Local",
		"Endereço", "Valor Total", "Entrada", "Forma de Pagamento",
		"Link do Evento",
	},
	schemaV3: {
		"Data e Hora", "Cliente", "Serviço", "Duração (min)", "Local",
		"Endereço", "Valor Total", "Entrada", "Forma de Pagamento",
		"Link do Evento", "Status",
	},
}

func detectSchema(header []string) (int, error) {
	for v := currentSchema; v >= schemaV1; v-- {
		if equalHeader(header, schemaHeaders[v]) {
			return v, nil
		}
	}
	return 0, errors.Parse("unrecognized ledger header", fmt.Errorf("columns: %v", header))
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// upgrade backfills fields that did not exist in older layouts. It runs
// once per Load, right after parsing. Empty status cells in current files
// get the same pending default as a missing column.
func upgrade(records []model.AppointmentRecord) []model.AppointmentRecord {
	for i := range records {
		if records[i].Status == "" {
			records[i].Status = model.StatusPending
		}
	}
	return records
}
