package reference

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
)

// References looks up documents that other documents point at. Ids that do
// not resolve are absent from the returned maps.
type References interface {
	Patients(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Patient, error)
	Doctors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Doctor, error)
	Appointments(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Appointment, error)
}

// Resolver implements References on top of the store repositories.
type Resolver struct {
	repos repository.Repositories
}

func NewResolver(repos repository.Repositories) *Resolver {
	return &Resolver{repos: repos}
}

func (r *Resolver) Patients(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Patient, error) {
	return lookup[model.Patient, model.PatientUpdate](ctx, r.repos.Patients, ids)
}

func (r *Resolver) Doctors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Doctor, error) {
	return lookup[model.Doctor, model.DoctorUpdate](ctx, r.repos.Doctors, ids)
}

func (r *Resolver) Appointments(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Appointment, error) {
	return lookup[model.Appointment, model.AppointmentUpdate](ctx, r.repos.Appointments, ids)
}

func lookup[T any, U any, PT interface {
	*T
	model.Document
}](ctx context.Context, repo repository.Repository[T, U], ids []primitive.ObjectID) (map[primitive.ObjectID]*T, error) {
	found := make(map[primitive.ObjectID]*T)
	wanted := Unique(ids)
	if len(wanted) == 0 {
		return found, nil
	}

	docs, err := repo.ListByIDs(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve references: %w", err)
	}
	for _, doc := range docs {
		found[PT(doc).Meta().ID] = doc
	}
	return found, nil
}

// Unique drops zero and repeated ids, keeping first occurrences in order.
func Unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IDs collects the non-nil references of a batch.
func IDs(refs ...*primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		if ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}
