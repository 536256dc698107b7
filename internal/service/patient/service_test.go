package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository/memory"
	"github.com/jwalitptl/medoffice-api/internal/service/event/eventtest"
	apperrors "github.com/jwalitptl/medoffice-api/pkg/errors"
)

func newTestService() (*Service, *eventtest.Recorder) {
	rec := &eventtest.Recorder{}
	return NewService(memory.NewStore(nil).Repositories().Patients, rec), rec
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService()

	created, err := svc.CreatePatient(ctx, model.PatientDetails{Name: "Jane Doe", Age: 30, Gender: "F"})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	got, err := svc.GetPatient(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.PatientDetails, got.PatientDetails)
	assert.Equal(t, []string{"patient.created"}, rec.Types())
}

func TestUnknownAndMalformedIDs(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService()

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id", ""} {
		_, err := svc.GetPatient(ctx, id)
		assert.True(t, apperrors.IsNotFound(err), id)

		name := model.Text("x")
		_, err = svc.UpdatePatient(ctx, id, &model.PatientUpdate{Name: &name})
		assert.True(t, apperrors.IsNotFound(err), id)

		assert.True(t, apperrors.IsNotFound(svc.DeletePatient(ctx, id)), id)
	}
	assert.Empty(t, rec.Events())
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreatePatient(ctx, model.PatientDetails{Name: "Jane Doe", Age: 30, Gender: "F", Phone: "555"})
	require.NoError(t, err)

	age := model.Number(31)
	for i := 0; i < 2; i++ {
		updated, err := svc.UpdatePatient(ctx, created.ID.Hex(), &model.PatientUpdate{Age: &age})
		require.NoError(t, err)
		assert.Equal(t, age, updated.Age)
	}

	got, err := svc.GetPatient(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, age, got.Age)
	assert.Equal(t, model.Text("Jane Doe"), got.Name)
	assert.Equal(t, model.Text("555"), got.Phone)
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService()

	created, err := svc.CreatePatient(ctx, model.PatientDetails{Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePatient(ctx, created.ID.Hex()))
	_, err = svc.GetPatient(ctx, created.ID.Hex())
	assert.True(t, apperrors.IsNotFound(err))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "patient.deleted", events[1].Type)
	assert.Equal(t, model.DeletedRef(created.ID), events[1].Payload)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	patients, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)

	_, err = svc.CreatePatient(ctx, model.PatientDetails{Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreatePatient(ctx, model.PatientDetails{Name: "B"})
	require.NoError(t, err)

	patients, err = svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 2)
}

func TestStoreFailureIsInternal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc, _ := newTestService()

	_, err := svc.ListPatients(ctx)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
}
