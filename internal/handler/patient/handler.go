package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medoffice-api/internal/handler"
	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/service/patient"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.PatientDetails
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreatePatient(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	found, err := h.service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.PatientUpdate
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdatePatient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.service.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Patient deleted successfully"))
}
