package appointment

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/internal/service/event"
	"github.com/jwalitptl/medoffice-api/internal/service/reference"
	apperrors "github.com/jwalitptl/medoffice-api/pkg/errors"
)

const resource = "appointment"

type AppointmentService interface {
	CreateAppointment(ctx context.Context, details model.AppointmentDetails) (*model.PopulatedAppointment, error)
	ListAppointments(ctx context.Context) ([]*model.PopulatedAppointment, error)
	GetAppointment(ctx context.Context, id string) (*model.PopulatedAppointment, error)
	UpdateAppointment(ctx context.Context, id string, fields *model.AppointmentUpdate) (*model.PopulatedAppointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// Service manages appointments. Patient and doctor references are stored as
// given and resolved on every read.
type Service struct {
	repo   repository.AppointmentRepository
	refs   reference.References
	events event.Emitter
}

func NewService(repo repository.AppointmentRepository, refs reference.References, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		refs:   refs,
		events: events,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, details model.AppointmentDetails) (*model.PopulatedAppointment, error) {
	apt, err := model.NewAppointment(details)
	if err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.events.Emit(ctx, resource, event.ActionCreated, apt)

	populated, err := s.populate(ctx, []*model.Appointment{apt})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("appointment %s was created but could not be populated: %w", apt.ID.Hex(), err))
	}
	return populated[0], nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.PopulatedAppointment, error) {
	apts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out, err := s.populate(ctx, apts)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.PopulatedAppointment, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}

	apt, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	return s.populateOne(ctx, apt)
}

func (s *Service) UpdateAppointment(ctx context.Context, id string, fields *model.AppointmentUpdate) (*model.PopulatedAppointment, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}
	if fields == nil {
		fields = &model.AppointmentUpdate{}
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	apt, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		return nil, classify(err)
	}
	s.events.Emit(ctx, resource, event.ActionUpdated, apt)

	return s.populateOne(ctx, apt)
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	oid, err := model.ParseID(id)
	if err != nil {
		return notFound()
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return classify(err)
	}

	s.events.Emit(ctx, resource, event.ActionDeleted, model.DeletedRef(oid))
	return nil
}

func (s *Service) populateOne(ctx context.Context, apt *model.Appointment) (*model.PopulatedAppointment, error) {
	out, err := s.populate(ctx, []*model.Appointment{apt})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out[0], nil
}

// populate resolves the references of a batch with one lookup per
// referenced collection.
func (s *Service) populate(ctx context.Context, apts []*model.Appointment) ([]*model.PopulatedAppointment, error) {
	patientIDs := make([]primitive.ObjectID, 0, len(apts))
	doctorIDs := make([]primitive.ObjectID, 0, len(apts))
	for _, apt := range apts {
		patientIDs = append(patientIDs, reference.IDs(apt.PatientID)...)
		doctorIDs = append(doctorIDs, reference.IDs(apt.DoctorID)...)
	}

	patients, err := s.refs.Patients(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to populate patients: %w", err)
	}
	doctors, err := s.refs.Doctors(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to populate doctors: %w", err)
	}

	out := make([]*model.PopulatedAppointment, 0, len(apts))
	for _, apt := range apts {
		populated := &model.PopulatedAppointment{Appointment: apt}
		if apt.PatientID != nil {
			populated.Patient = patients[*apt.PatientID]
		}
		if apt.DoctorID != nil {
			populated.Doctor = doctors[*apt.DoctorID]
		}
		out = append(out, populated)
	}
	return out, nil
}

func notFound() error {
	return apperrors.NotFound("Appointment", nil)
}

func classify(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return apperrors.Internal(err)
}
