package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medoffice-api/internal/model"
)

func TestJSONPatchKeepsOnlySetFields(t *testing.T) {
	phone := model.Text("555-0100")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	patch, err := JSONPatch(&model.PatientUpdate{Phone: &phone}, now)
	require.NoError(t, err)

	assert.Len(t, patch, 2)
	assert.JSONEq(t, `"555-0100"`, string(patch["phone"]))
	assert.JSONEq(t, `"2024-03-01T12:00:00Z"`, string(patch["updatedAt"]))
}

func TestMergeJSON(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := &model.Patient{
		Base:           model.Base{CreatedAt: created, UpdatedAt: created},
		PatientDetails: model.PatientDetails{Name: "Jane Doe", Age: 30, Gender: "F"},
	}

	age := model.Number(31)
	now := created.Add(time.Hour)
	patch, err := JSONPatch(&model.PatientUpdate{Age: &age}, now)
	require.NoError(t, err)

	var out model.Patient
	require.NoError(t, MergeJSON(doc, patch, &out))

	assert.Equal(t, model.Text("Jane Doe"), out.Name)
	assert.Equal(t, model.Text("F"), out.Gender)
	assert.Equal(t, model.Number(31), out.Age)
	assert.True(t, out.CreatedAt.Equal(created))
	assert.True(t, out.UpdatedAt.Equal(now))
}
