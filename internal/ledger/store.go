package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/pkg/errors"
	"github.com/psouza/agenda-api/pkg/metrics"
)

// Store reads and writes the appointment ledger, a CSV file with a header
// row. Every mutation is a full-file rewrite; there is no append mode and
// no cross-process locking, so the file is only safe for a single
// operator. The mutex makes one process internally race-free.
type Store struct {
	path    string
	mu      sync.Mutex
	metrics *metrics.Metrics
}

func NewStore(path string, m *metrics.Metrics) *Store {
	return &Store{path: path, metrics: m}
}

// Load reads the whole ledger. A missing file yields an empty ledger.
// Rows from older layouts are upgraded in place: an absent Status column
// backfills every row to pending.
func (s *Store) Load() ([]model.AppointmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	records, err := s.load()
	s.observe("load", start, err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.LedgerRows.Set(float64(len(records)))
	}
	return records, nil
}

func (s *Store) load() ([]model.AppointmentRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return []model.AppointmentRecord{}, nil
	}
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("open ledger: %w", err))
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Parse("malformed ledger file", err)
	}
	if len(rows) == 0 {
		return []model.AppointmentRecord{}, nil
	}

	version, err := detectSchema(rows[0])
	if err != nil {
		return nil, err
	}
	cols := columnIndex(schemaHeaders[version])

	records := make([]model.AppointmentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, errors.Parse(fmt.Sprintf("ledger row %d", i+2), err)
		}
		records = append(records, rec)
	}
	return upgrade(records), nil
}

// Save serializes the full record slice back to the file, overwriting it.
func (s *Store) Save(records []model.AppointmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.save(records)
	s.observe("save", start, err)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.LedgerRows.Set(float64(len(records)))
	}
	return nil
}

func (s *Store) save(records []model.AppointmentRecord) error {
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Internal(fmt.Errorf("create ledger: %w", err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(schemaHeaders[currentSchema]); err != nil {
		return errors.Internal(fmt.Errorf("write ledger header: %w", err))
	}
	for _, rec := range records {
		if err := w.Write(formatRow(rec)); err != nil {
			return errors.Internal(fmt.Errorf("write ledger row: %w", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Internal(fmt.Errorf("flush ledger: %w", err))
	}
	return nil
}

func (s *Store) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.LedgerOperations.WithLabelValues(op, status).Inc()
	s.metrics.LedgerLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func parseRow(row []string, cols map[string]int) (model.AppointmentRecord, error) {
	var rec model.AppointmentRecord

	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	start, err := time.ParseInLocation(model.IdentityLayout, field("Data e Hora"), time.Local)
	if err != nil {
		return rec, fmt.Errorf("invalid date %q: %w", field("Data e Hora"), err)
	}
	rec.Start = start
	rec.Client = field("Cliente")
	rec.Service = field("Serviço")

	if v := field("Duração (min)"); v != "" {
		rec.DurationMin, err = strconv.Atoi(v)
		if err != nil {
			return rec, fmt.Errorf("invalid duration %q: %w", v, err)
		}
	}

	rec.Location = field("Local")
	rec.Address = field("Endereço")

	rec.TotalAmount, err = parseAmount(field("Valor Total"))
	if err != nil {
		return rec, err
	}
	rec.DepositAmount, err = parseAmount(field("Entrada"))
	if err != nil {
		return rec, err
	}

	rec.PaymentMethod = field("Forma de Pagamento")
	rec.EventLink = field("Link do Evento")

	switch status := field("Status"); status {
	case "":
		// Older layouts have no column; upgrade fills the default.
	case string(model.StatusPending), string(model.StatusCompleted):
		rec.Status = model.AppointmentStatus(status)
	default:
		return rec, fmt.Errorf("invalid status %q", status)
	}

	return rec, nil
}

func parseAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", v, err)
	}
	return d, nil
}

func formatRow(rec model.AppointmentRecord) []string {
	return []string{
		rec.Start.Format(model.IdentityLayout),
		rec.Client,
		rec.Service,
		strconv.Itoa(rec.DurationMin),
		rec.Location,
		rec.Address,
		rec.TotalAmount.StringFixed(2),
		rec.DepositAmount.StringFixed(2),
		rec.PaymentMethod,
		rec.EventLink,
		string(rec.Status),
	}
}
