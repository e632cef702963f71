package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lawfirm-crm/internal/model"
)

// ClientRequest represents the request body for creating/updating clients
type ClientRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	MiddleName     string `json:"middle_name"`
	PrimaryPhone   string `json:"primary_phone"`
	MobilePhone    string `json:"mobile_phone"`
	PrimaryEmail   string `json:"primary_email" binding:"omitempty,email"`
	AlternateEmail string `json:"alternate_email" binding:"omitempty,email"`
	AddressLine1   string `json:"address_line1"`
	AddressLine2   string `json:"address_line2"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	CaseType       string `json:"case_type"`
	CaseStatus     string `json:"case_status"`
	CompanyName    string `json:"company_name"`
	JobTitle       string `json:"job_title"`
}

func (r *ClientRequest) apply(client *model.Client) {
	client.FirstName = r.FirstName
	client.LastName = r.LastName
	client.MiddleName = r.MiddleName
	client.PrimaryPhone = r.PrimaryPhone
	client.MobilePhone = r.MobilePhone
	client.PrimaryEmail = r.PrimaryEmail
	client.AlternateEmail = r.AlternateEmail
	client.AddressLine1 = r.AddressLine1
	client.AddressLine2 = r.AddressLine2
	client.City = r.City
	client.State = r.State
	client.ZipCode = r.ZipCode
	if r.Country != "" {
		client.Country = r.Country
	}
	client.CaseType = r.CaseType
	client.CaseStatus = r.CaseStatus
	client.CompanyName = r.CompanyName
	client.JobTitle = r.JobTitle
}

// GetClients returns all clients
func (h *Handlers) GetClients(c *gin.Context) {
	var clients []model.Client
	if err := h.db.Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch clients",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// CreateClient creates a new client
func (h *Handlers) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var client model.Client
	req.apply(&client)

	if err := h.db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	logrus.Infof("Created client %d (%s %s)", client.ID, client.FirstName, client.LastName)
	c.JSON(http.StatusCreated, client)
}

// GetClient returns a specific client
func (h *Handlers) GetClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var client model.Client
	if err := h.db.First(&client, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Client not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates a client
func (h *Handlers) UpdateClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var client model.Client
	if err := h.db.First(&client, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Client not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	req.apply(&client)

	if err := h.db.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient deletes a client
func (h *Handlers) DeleteClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var client model.Client
	if err := h.db.First(&client, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Client not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.db.Delete(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete client",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
