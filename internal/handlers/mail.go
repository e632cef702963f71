package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/mailer"
	"lawfirm-crm/internal/model"
)

// SendMailRequest represents the request body for sending mail
type SendMailRequest struct {
	ToAddress      []string `json:"to_address" binding:"required,min=1"`
	Subject        string   `json:"subject" binding:"required"`
	Body           string   `json:"body" binding:"required"`
	ClientID       *uint    `json:"client_id"`
	InReplyTo      string   `json:"in_reply_to"`
	ThreadID       string   `json:"thread_id"`
	AttachmentURLs []string `json:"attachment_urls"`
}

// GetMails returns all mail records for a client
func (h *Handlers) GetMails(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	mails, err := h.repo.MailsByClient(uint(clientID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch mails",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, mails)
}

// SendMail sends an email and stores the outgoing record. The stored thread
// id is the request's thread id when replying within a known conversation,
// else the freshly generated message id.
func (h *Handlers) SendMail(c *gin.Context) {
	var req SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Recipient, subject, and body are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	messageID, err := h.sender.Send(c.Request.Context(), mailer.SendRequest{
		To:               req.ToAddress,
		Subject:          req.Subject,
		Body:             req.Body,
		ReplyToMessageID: req.InReplyTo,
		OriginalSubject:  req.Subject,
		AttachmentURLs:   req.AttachmentURLs,
	})
	if err != nil {
		logrus.Errorf("Failed to send mail to %s: %v", req.ToAddress[0], err)
		h.metrics.SendFailures.Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "send_error",
			Message: "Failed to send mail",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	h.metrics.SendSuccesses.Inc()

	threadID := req.ThreadID
	if threadID == "" {
		threadID = messageID
	}

	now := time.Now()
	record := &model.Mail{
		MessageID:   messageID,
		ThreadID:    threadID,
		ClientID:    req.ClientID,
		Direction:   model.DirectionOutgoing,
		FromAddress: h.mailboxAddress,
		ToAddress:   req.ToAddress,
		Subject:     req.Subject,
		ParsedBody:  req.Body,
		SentAt:      &now,
	}
	if req.InReplyTo != "" {
		record.InReplyTo = &req.InReplyTo
	}

	if err := h.repo.InsertMail(record); err != nil {
		logrus.Errorf("Mail sent but record insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Mail sent but failed to store record",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GmailAuthURL returns the OAuth consent URL for the Gmail sync service
func (h *Handlers) GmailAuthURL(c *gin.Context) {
	if h.gmail == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_configured",
			Message: "Gmail sync is not enabled",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": h.gmail.AuthURL()})
}

// GmailCompleteAuth exchanges an authorization code for Gmail credentials
func (h *Handlers) GmailCompleteAuth(c *gin.Context) {
	if h.gmail == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_configured",
			Message: "Gmail sync is not enabled",
			Code:    http.StatusNotFound,
		})
		return
	}

	var req struct {
		AuthCode string `json:"auth_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Authorization code is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.gmail.CompleteAuth(c.Request.Context(), req.AuthCode); err != nil {
		logrus.Errorf("Gmail auth failed: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "auth_error",
			Message: "Failed to complete Gmail authentication",
			Code:    http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gmail authentication completed successfully"})
}
