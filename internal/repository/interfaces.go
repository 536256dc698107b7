package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
)

// ErrNotFound is returned by every driver when an id does not resolve.
var ErrNotFound = errors.New("document not found")

// Collection names shared by every driver.
const (
	PatientsCollection      = "patients"
	DoctorsCollection       = "doctors"
	AppointmentsCollection  = "appointments"
	PrescriptionsCollection = "prescriptions"
)

// Repository is the document store contract for one entity type. T is the
// stored document and U its merge update.
type Repository[T any, U any] interface {
	Create(ctx context.Context, doc *T) error
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	List(ctx context.Context) ([]*T, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*T, error)
	Update(ctx context.Context, id primitive.ObjectID, fields *U) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type (
	PatientRepository      = Repository[model.Patient, model.PatientUpdate]
	DoctorRepository       = Repository[model.Doctor, model.DoctorUpdate]
	AppointmentRepository  = Repository[model.Appointment, model.AppointmentUpdate]
	PrescriptionRepository = Repository[model.Prescription, model.PrescriptionUpdate]
)

// Repositories bundles the per-entity repositories of one store.
type Repositories struct {
	Patients      PatientRepository
	Doctors       DoctorRepository
	Appointments  AppointmentRepository
	Prescriptions PrescriptionRepository
}

// Store is an opened storage backend.
type Store interface {
	Ping(ctx context.Context) error
	// Migrate creates whatever schema objects the driver relies on. It is
	// idempotent.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
	Repositories() Repositories
}
