package memory

import (
	"context"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

// Store keeps every collection in process memory. Nothing survives a
// restart; it backs tests and local runs without a database.
type Store struct {
	repos repository.Repositories
}

func NewStore(m *metrics.Metrics) *Store {
	return &Store{
		repos: repository.Repositories{
			Patients:      newCollection[model.Patient, model.PatientUpdate](repository.PatientsCollection, m),
			Doctors:       newCollection[model.Doctor, model.DoctorUpdate](repository.DoctorsCollection, m),
			Appointments:  newCollection[model.Appointment, model.AppointmentUpdate](repository.AppointmentsCollection, m),
			Prescriptions: newCollection[model.Prescription, model.PrescriptionUpdate](repository.PrescriptionsCollection, m),
		},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Migrate(context.Context) error {
	return nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

func (s *Store) Repositories() repository.Repositories {
	return s.repos
}
