package reference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository/memory"
)

func TestResolverPatients(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore(nil).Repositories()

	p, err := model.NewPatient(model.PatientDetails{Name: "Jane Doe"})
	require.NoError(t, err)
	require.NoError(t, repos.Patients.Create(ctx, p))

	missing := primitive.NewObjectID()
	found, err := NewResolver(repos).Patients(ctx, []primitive.ObjectID{p.ID, missing, p.ID, primitive.NilObjectID})
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, model.Text("Jane Doe"), found[p.ID].Name)
	assert.Nil(t, found[missing])
}

func TestResolverEmptyInput(t *testing.T) {
	found, err := NewResolver(memory.NewStore(nil).Repositories()).Doctors(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestResolverPropagatesStoreErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(memory.NewStore(nil).Repositories()).Appointments(ctx, []primitive.ObjectID{primitive.NewObjectID()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIDs(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, []primitive.ObjectID{a, b}, IDs(&a, nil, &b))
	assert.Equal(t, []primitive.ObjectID{a}, Unique([]primitive.ObjectID{a, a, primitive.NilObjectID}))
}
