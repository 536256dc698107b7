package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medoffice-api/internal/handler"
	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/service/prescription"
)

type Handler struct {
	service prescription.PrescriptionService
}

func NewHandler(service prescription.PrescriptionService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.DELETE("/:id", h.DeletePrescription)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.PrescriptionDetails
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreatePrescription(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.ListPrescriptions(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, prescriptions)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	found, err := h.service.GetPrescription(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	var req model.PrescriptionUpdate
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdatePrescription(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	if err := h.service.DeletePrescription(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Prescription deleted successfully"))
}
