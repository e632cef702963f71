package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lawfirm-crm/internal/model"
)

// NoteRequest represents the request body for creating/updating notes
type NoteRequest struct {
	ClientID  uint   `json:"client_id" binding:"required"`
	CreatedBy string `json:"created_by" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// GetNotes returns all notes for a client
func (h *Handlers) GetNotes(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var notes []model.Note
	if err := h.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch notes",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// CreateNote creates a new note
func (h *Handlers) CreateNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Client ID, created by, and content are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	note := model.Note{
		ClientID:  req.ClientID,
		CreatedBy: req.CreatedBy,
		Content:   req.Content,
	}

	if err := h.db.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create note",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote updates a note's content
func (h *Handlers) UpdateNote(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid note ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Content is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var note model.Note
	if err := h.db.First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Note not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch note",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	note.Content = req.Content

	if err := h.db.Save(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update note",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note
func (h *Handlers) DeleteNote(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid note ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var note model.Note
	if err := h.db.First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Note not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch note",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.db.Delete(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete note",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
