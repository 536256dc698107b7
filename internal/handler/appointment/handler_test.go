package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/internal/repository/memory"
	"github.com/jwalitptl/medoffice-api/internal/service/appointment"
	"github.com/jwalitptl/medoffice-api/internal/service/event/eventtest"
	"github.com/jwalitptl/medoffice-api/internal/service/reference"
)

type env struct {
	router  *gin.Engine
	repos   repository.Repositories
	patient *model.Patient
	doctor  *model.Doctor
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repos := memory.NewStore(nil).Repositories()

	p, err := model.NewPatient(model.PatientDetails{Name: "Jane Doe", Age: 30, Gender: "F"})
	require.NoError(t, err)
	require.NoError(t, repos.Patients.Create(context.Background(), p))
	d, err := model.NewDoctor(model.DoctorDetails{Name: "Dr. Grey"})
	require.NoError(t, err)
	require.NoError(t, repos.Doctors.Create(context.Background(), d))

	r := gin.New()
	svc := appointment.NewService(repos.Appointments, reference.NewResolver(repos), &eventtest.Recorder{})
	NewHandler(svc).RegisterRoutes(&r.RouterGroup)
	return &env{router: r, repos: repos, patient: p, doctor: d}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) body() string {
	return fmt.Sprintf(`{"patientId":%q,"doctorId":%q,"appointmentDate":"2024-05-01","appointmentTime":"10:30"}`,
		e.patient.ID.Hex(), e.doctor.ID.Hex())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateDefaultsToScheduled(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/appointments", e.body())
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decode(t, rec)
	assert.Equal(t, "scheduled", created["status"])
	assert.Equal(t, "2024-05-01T00:00:00Z", created["appointmentDate"])
	assert.Equal(t, "Jane Doe", created["patientId"].(map[string]interface{})["name"])
	assert.Equal(t, "Dr. Grey", created["doctorId"].(map[string]interface{})["name"])
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/appointments", `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "is not a valid enum value")
}

func TestCreateRejectsMalformedReference(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/appointments", `{"patientId":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNonexistentAppointment(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPut, "/appointments/"+primitive.NewObjectID().Hex(), `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Appointment not found"}`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	e := setup(t)
	id := decode(t, e.do(http.MethodPost, "/appointments", e.body()))["_id"].(string)

	rec := e.do(http.MethodPut, "/appointments/"+id, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "completed", updated["status"])
	assert.Equal(t, "10:30", updated["appointmentTime"])
	assert.IsType(t, map[string]interface{}{}, updated["patientId"])

	rec = e.do(http.MethodPut, "/appointments/"+id, `{"status":"unknown"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletedReferenceIsNull(t *testing.T) {
	e := setup(t)
	id := decode(t, e.do(http.MethodPost, "/appointments", e.body()))["_id"].(string)

	require.NoError(t, e.repos.Doctors.Delete(context.Background(), e.doctor.ID))

	rec := e.do(http.MethodGet, "/appointments/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Nil(t, got["doctorId"])
	assert.Equal(t, "Jane Doe", got["patientId"].(map[string]interface{})["name"])

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(e.do(http.MethodGet, "/appointments", "").Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Nil(t, list[0]["doctorId"])
}

func TestDeleteAppointment(t *testing.T) {
	e := setup(t)
	id := decode(t, e.do(http.MethodPost, "/appointments", e.body()))["_id"].(string)

	rec := e.do(http.MethodDelete, "/appointments/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Appointment deleted successfully"}`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/appointments/"+id, "").Code)
}
