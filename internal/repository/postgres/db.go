package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store keeps each collection as a table of JSONB documents.
type Store struct {
	db    *sqlx.DB
	repos repository.Repositories
}

// NewStore validates the connection string and opens a pool. Like the mongo
// driver it does not dial until first use.
func NewStore(cfg Config, m *metrics.Metrics) (*Store, error) {
	if strings.Contains(cfg.URL, "://") {
		if _, err := pq.ParseURL(cfg.URL); err != nil {
			return nil, fmt.Errorf("invalid postgres connection string: %w", err)
		}
	}

	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return newStore(db, m), nil
}

func newStore(db *sqlx.DB, m *metrics.Metrics) *Store {
	return &Store{
		db: db,
		repos: repository.Repositories{
			Patients:      newTable[model.Patient, model.PatientUpdate](db, repository.PatientsCollection, m),
			Doctors:       newTable[model.Doctor, model.DoctorUpdate](db, repository.DoctorsCollection, m),
			Appointments:  newTable[model.Appointment, model.AppointmentUpdate](db, repository.AppointmentsCollection, m),
			Prescriptions: newTable[model.Prescription, model.PrescriptionUpdate](db, repository.PrescriptionsCollection, m),
		},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, stmt := range schema() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func (s *Store) Repositories() repository.Repositories {
	return s.repos
}

func schema() []string {
	tables := []string{
		repository.PatientsCollection,
		repository.DoctorsCollection,
		repository.AppointmentsCollection,
		repository.PrescriptionsCollection,
	}

	stmts := make([]string, 0, len(tables)*2)
	for _, t := range tables {
		stmts = append(stmts,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				doc        JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`, t),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_created_at_idx ON %s (created_at)`, t, t),
		)
	}
	return stmts
}
