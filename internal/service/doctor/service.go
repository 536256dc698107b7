package doctor

import (
	"context"
	"errors"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/internal/service/event"
	apperrors "github.com/jwalitptl/medoffice-api/pkg/errors"
)

const resource = "doctor"

type DoctorService interface {
	CreateDoctor(ctx context.Context, details model.DoctorDetails) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id string, fields *model.DoctorUpdate) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error
}

type Service struct {
	repo   repository.DoctorRepository
	events event.Emitter
}

func NewService(repo repository.DoctorRepository, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		events: events,
	}
}

func (s *Service) CreateDoctor(ctx context.Context, details model.DoctorDetails) (*model.Doctor, error) {
	doctor, err := model.NewDoctor(details)
	if err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Emit(ctx, resource, event.ActionCreated, doctor)
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}

	doctor, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, fields *model.DoctorUpdate) (*model.Doctor, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, notFound()
	}
	if fields == nil {
		fields = &model.DoctorUpdate{}
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	doctor, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		return nil, classify(err)
	}

	s.events.Emit(ctx, resource, event.ActionUpdated, doctor)
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
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
	return apperrors.NotFound("Doctor", nil)
}

func classify(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return apperrors.Internal(err)
}
