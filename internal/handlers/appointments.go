package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lawfirm-crm/internal/model"
)

// AppointmentRequest represents the request body for creating/updating appointments
type AppointmentRequest struct {
	Title           string `json:"title" binding:"required"`
	ClientID        uint   `json:"client_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time"`
	AppointmentType string `json:"appointment_type"`
	Notes           string `json:"notes"`
}

// GetAppointments returns all appointments
func (h *Handlers) GetAppointments(c *gin.Context) {
	var appointments []model.Appointment
	if err := h.db.Order("date").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch appointments",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment returns a specific appointment
func (h *Handlers) GetAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid appointment ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var appointment model.Appointment
	if err := h.db.First(&appointment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Appointment not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch appointment",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CreateAppointment creates a new appointment after checking the client exists
func (h *Handlers) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Date must be in YYYY-MM-DD format",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !h.clientExists(c, req.ClientID) {
		return
	}

	appointment := model.Appointment{
		Title:           req.Title,
		ClientID:        req.ClientID,
		Date:            date,
		Time:            req.Time,
		AppointmentType: req.AppointmentType,
		Notes:           req.Notes,
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create appointment",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// UpdateAppointment updates an appointment
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid appointment ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Date must be in YYYY-MM-DD format",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var appointment model.Appointment
	if err := h.db.First(&appointment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Appointment not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch appointment",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if req.ClientID != appointment.ClientID && !h.clientExists(c, req.ClientID) {
		return
	}

	appointment.Title = req.Title
	appointment.ClientID = req.ClientID
	appointment.Date = date
	appointment.Time = req.Time
	appointment.AppointmentType = req.AppointmentType
	appointment.Notes = req.Notes

	if err := h.db.Save(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update appointment",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment deletes an appointment
func (h *Handlers) DeleteAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid appointment ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.db.Delete(&model.Appointment{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete appointment",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// clientExists writes a 404 response and returns false when the client id is unknown
func (h *Handlers) clientExists(c *gin.Context, clientID uint) bool {
	var client model.Client
	if err := h.db.Select("id").First(&client, clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Client not found",
				Code:    http.StatusNotFound,
			})
			return false
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to check client",
			Code:    http.StatusInternalServerError,
		})
		return false
	}
	return true
}
