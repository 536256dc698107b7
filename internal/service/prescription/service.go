package prescription

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

const resource = "prescription"

type PrescriptionService interface {
	CreatePrescription(ctx context.Context, details model.PrescriptionDetails) (*model.PopulatedPrescription, error)
	ListPrescriptions(ctx context.Context) ([]*model.PopulatedPrescription, error)
	GetPrescription(ctx context.Context, id string) (*model.PopulatedPrescription, error)
	UpdatePrescription(ctx context.Context, id string, fields *model.PrescriptionUpdate) (*model.PopulatedPrescription, error)
	DeletePrescription(ctx context.Context, id string) error
}

type Service struct {
	repo   repository.PrescriptionRepository
	refs   reference.References
	events event.Emitter
}

func NewService(repo repository.PrescriptionRepository, refs reference.References, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		refs:   refs,
		events: events,
	}
}

func (s *Service) CreatePrescription(ctx context.Context, details model.PrescriptionDetails) (*model.PopulatedPrescription, error) {
	rx, err := model.NewPrescription(details)
	if err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, rx); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Emit(ctx, resource, event.ActionCreated, rx)

	populated, err := s.populate(ctx, []*model.Prescription{rx})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("prescription %s was created but could not be populated: %w", rx.ID.Hex(), err))
	}
	return populated[0], nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]*model.PopulatedPrescription, error) {
	rxs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out, err := s.populate(ctx, rxs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) GetPrescription(ctx context.Context, id string) (*model.PopulatedPrescription, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}

	rx, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	return s.populateOne(ctx, rx)
}

func (s *Service) UpdatePrescription(ctx context.Context, id string, fields *model.PrescriptionUpdate) (*model.PopulatedPrescription, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}
	if fields == nil {
		fields = &model.PrescriptionUpdate{}
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	rx, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		return nil, classify(err)
	}
	s.events.Emit(ctx, resource, event.ActionUpdated, rx)

	return s.populateOne(ctx, rx)
}

func (s *Service) DeletePrescription(ctx context.Context, id string) error {
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

func (s *Service) populateOne(ctx context.Context, rx *model.Prescription) (*model.PopulatedPrescription, error) {
	out, err := s.populate(ctx, []*model.Prescription{rx})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out[0], nil
}

func (s *Service) populate(ctx context.Context, rxs []*model.Prescription) ([]*model.PopulatedPrescription, error) {
	var appointmentIDs, patientIDs, doctorIDs []primitive.ObjectID
	for _, rx := range rxs {
		appointmentIDs = append(appointmentIDs, reference.IDs(rx.AppointmentID)...)
		patientIDs = append(patientIDs, reference.IDs(rx.PatientID)...)
		doctorIDs = append(doctorIDs, reference.IDs(rx.DoctorID)...)
	}

	appointments, err := s.refs.Appointments(ctx, appointmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to populate appointments: %w", err)
	}
	patients, err := s.refs.Patients(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to populate patients: %w", err)
	}
	doctors, err := s.refs.Doctors(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to populate doctors: %w", err)
	}

	out := make([]*model.PopulatedPrescription, 0, len(rxs))
	for _, rx := range rxs {
		populated := &model.PopulatedPrescription{Prescription: rx}
		if rx.AppointmentID != nil {
			populated.Appointment = appointments[*rx.AppointmentID]
		}
		if rx.PatientID != nil {
			populated.Patient = patients[*rx.PatientID]
		}
		if rx.DoctorID != nil {
			populated.Doctor = doctors[*rx.DoctorID]
		}
		out = append(out, populated)
	}
	return out, nil
}

func notFound() error {
	return apperrors.NotFound("Prescription", nil)
}

func classify(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return apperrors.Internal(err)
}
