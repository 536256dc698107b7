package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medoffice-api/internal/handler"
	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/service/doctor"
)

type Handler struct {
	service doctor.DoctorService
}

func NewHandler(service doctor.DoctorService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.DoctorDetails
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateDoctor(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	found, err := h.service.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.DoctorUpdate
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateDoctor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if err := h.service.DeleteDoctor(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Doctor deleted successfully"))
}
