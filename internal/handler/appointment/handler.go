package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medoffice-api/internal/handler"
	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/service/appointment"
)

type Handler struct {
	service appointment.AppointmentService
}

func NewHandler(service appointment.AppointmentService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.AppointmentDetails
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	found, err := h.service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req model.AppointmentUpdate
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateAppointment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.service.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Appointment deleted successfully"))
}
