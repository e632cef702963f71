package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lawfirm-crm/internal/model"
)

// MessageRequest represents the request body for creating messages
type MessageRequest struct {
	SenderID    uint   `json:"sender_id" binding:"required"`
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// GetMessages returns all messages
func (h *Handlers) GetMessages(c *gin.Context) {
	var messages []model.Message
	if err := h.db.Order("created_at").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch messages",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetConversation returns messages exchanged between two parties, in order
func (h *Handlers) GetConversation(c *gin.Context) {
	userID, err1 := strconv.ParseUint(c.Param("user_id"), 10, 32)
	otherID, err2 := strconv.ParseUint(c.Param("other_id"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid participant ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var messages []model.Message
	err := h.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch conversation",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// CreateMessage creates a new internal message
func (h *Handlers) CreateMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Sender, recipient, and content are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	message := model.Message{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		Channel:     "internal",
	}

	if err := h.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create message",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkMessageRead marks a message as read
func (h *Handlers) MarkMessageRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid message ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result := h.db.Model(&model.Message{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update message",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Message not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// SMSWebhook maps an SMS provider callback into a message row. The provider
// posts form-encoded fields; the sender phone number is matched to a client
// by mobile or primary phone.
func (h *Handlers) SMSWebhook(c *gin.Context) {
	externalID := c.PostForm("MessageSid")
	from := c.PostForm("From")
	body := c.PostForm("Body")

	if from == "" || body == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "From and Body are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var client model.Client
	senderID := uint(0)
	err := h.db.Where("mobile_phone = ? OR primary_phone = ?", from, from).First(&client).Error
	if err == nil {
		senderID = client.ID
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to match sender",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	message := model.Message{
		SenderID:   senderID,
		Content:    body,
		Channel:    "sms",
		ExternalID: externalID,
	}

	if err := h.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to store message",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, message)
}
