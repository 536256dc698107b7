package patient

import (
	"context"
	"errors"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/internal/service/event"
	apperrors "github.com/jwalitptl/medoffice-api/pkg/errors"
)

const resource = "patient"

type PatientService interface {
	CreatePatient(ctx context.Context, details model.PatientDetails) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, fields *model.PatientUpdate) (*model.Patient, error)
	DeletePatient(ctx context.Context, id string) error
}

type Service struct {
	repo   repository.PatientRepository
	events event.Emitter
}

func NewService(repo repository.PatientRepository, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		events: events,
	}
}

func (s *Service) CreatePatient(ctx context.Context, details model.PatientDetails) (*model.Patient, error) {
	patient, err := model.NewPatient(details)
	if err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Emit(ctx, resource, event.ActionCreated, patient)
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}

	patient, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id string, fields *model.PatientUpdate) (*model.Patient, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}
	if fields == nil {
		fields = &model.PatientUpdate{}
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	patient, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		return nil, classify(err)
	}

	s.events.Emit(ctx, resource, event.ActionUpdated, patient)
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id string) error {
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

func notFound() error {
	return apperrors.NotFound("Patient", nil)
}

func classify(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return apperrors.Internal(err)
}
