package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

func newPatient(t *testing.T, name string) *model.Patient {
	t.Helper()
	p, err := model.NewPatient(model.PatientDetails{Name: model.Text(name), Age: 40, Gender: "M"})
	require.NoError(t, err)
	return p
}

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(metrics.New("test")).Repositories().Patients

	p := newPatient(t, "John Roe")
	require.NoError(t, repo.Create(ctx, p))
	require.False(t, p.ID.IsZero())
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.PatientDetails, got.PatientDetails)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	addr := model.Text("1 Main St")
	updated, err := repo.Update(ctx, p.ID, &model.PatientUpdate{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, updated.Address)
	assert.Equal(t, model.Text("John Roe"), updated.Name)
	assert.Equal(t, p.ID, updated.ID)
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, addr, all[0].Address)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestCollectionUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(nil).Repositories().Doctors
	id := primitive.NewObjectID()

	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	name := model.Text("x")
	_, err = repo.Update(ctx, id, &model.DoctorUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCollectionListByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(nil).Repositories().Patients

	a, b := newPatient(t, "A"), newPatient(t, "B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	docs, err := repo.ListByIDs(ctx, []primitive.ObjectID{b.ID, primitive.NewObjectID(), b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, model.Text("B"), docs[0].Name)
	assert.Equal(t, model.Text("A"), docs[1].Name)
}

func TestCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(nil).Repositories().Patients

	p := newPatient(t, "Original")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Text("Original"), again.Name)
}

func TestCollectionConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(nil).Repositories().Patients

	p := newPatient(t, "Busy")
	require.NoError(t, repo.Create(ctx, p))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(age model.Number) {
			defer wg.Done()
			_, err := repo.Update(ctx, p.ID, &model.PatientUpdate{Age: &age})
			assert.NoError(t, err)
		}(model.Number(i))
	}
	wg.Wait()

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Text("Busy"), got.Name)
	assert.GreaterOrEqual(t, float64(got.Age), 0.0)
	assert.Less(t, float64(got.Age), 20.0)
}

func TestCollectionHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(nil).Repositories().Appointments.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
