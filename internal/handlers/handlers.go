package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lawfirm-crm/internal/mailer"
	"lawfirm-crm/internal/metrics"
	"lawfirm-crm/internal/repository"
	"lawfirm-crm/internal/scheduler"
)

// MailSender submits an outbound email and returns the generated message id
type MailSender interface {
	Send(ctx context.Context, req mailer.SendRequest) (string, error)
}

// GmailAuthorizer exposes the Gmail OAuth handshake
type GmailAuthorizer interface {
	AuthURL() string
	CompleteAuth(ctx context.Context, code string) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	db             *gorm.DB
	repo           *repository.Repository
	sender         MailSender
	gmail          GmailAuthorizer
	scheduler      *scheduler.Scheduler
	metrics        *metrics.Metrics
	mailboxAddress string
}

// NewHandlers creates new HTTP handlers. gmail may be nil when Gmail sync is
// disabled.
func NewHandlers(db *gorm.DB, repo *repository.Repository, sender MailSender, gmail GmailAuthorizer, sched *scheduler.Scheduler, m *metrics.Metrics, mailboxAddress string) *Handlers {
	return &Handlers{
		db:             db,
		repo:           repo,
		sender:         sender,
		gmail:          gmail,
		scheduler:      sched,
		metrics:        m,
		mailboxAddress: mailboxAddress,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/clients", h.GetClients)
		api.POST("/clients", h.CreateClient)
		api.GET("/clients/:id", h.GetClient)
		api.PUT("/clients/:id", h.UpdateClient)
		api.DELETE("/clients/:id", h.DeleteClient)

		api.GET("/notes/:client_id", h.GetNotes)
		api.POST("/notes", h.CreateNote)
		api.PUT("/notes/:id", h.UpdateNote)
		api.DELETE("/notes/:id", h.DeleteNote)

		api.GET("/appointments", h.GetAppointments)
		api.GET("/appointments/:id", h.GetAppointment)
		api.POST("/appointments", h.CreateAppointment)
		api.PUT("/appointments/:id", h.UpdateAppointment)
		api.DELETE("/appointments/:id", h.DeleteAppointment)

		api.GET("/messages", h.GetMessages)
		api.GET("/messages/conversation/:user_id/:other_id", h.GetConversation)
		api.POST("/messages", h.CreateMessage)
		api.PATCH("/messages/:id/read", h.MarkMessageRead)

		api.GET("/mail/:client_id", h.GetMails)
		api.POST("/mail", h.SendMail)

		api.POST("/gmail/auth-url", h.GmailAuthURL)
		api.POST("/gmail/complete-auth", h.GmailCompleteAuth)

		api.POST("/webhooks/sms", h.SMSWebhook)

		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.POST("/scheduler/run-once", h.RunOnce)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Details   map[string]string `json:"details,omitempty"`
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Details:   make(map[string]string),
	}

	if err := h.db.Raw("SELECT 1").Error; err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.scheduler.IsRunning() {
		response.Details["scheduler"] = "running"
		response.Details["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
	} else {
		response.Details["scheduler"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// StartScheduler starts the ingestion scheduler
func (h *Handlers) StartScheduler(c *gin.Context) {
	if err := h.scheduler.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "scheduler_error",
			Message: "Failed to start scheduler",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scheduler started successfully", "status": "running"})
}

// StopScheduler stops the ingestion scheduler
func (h *Handlers) StopScheduler(c *gin.Context) {
	if err := h.scheduler.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "scheduler_error",
			Message: "Failed to stop scheduler",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scheduler stopped successfully", "status": "stopped"})
}

// RunOnce runs one ingestion cycle
func (h *Handlers) RunOnce(c *gin.Context) {
	if err := h.scheduler.RunOnce(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "scheduler_error",
			Message: "Failed to run ingestion cycle",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ingestion cycle completed"})
}

// GetSchedulerStatus returns the current scheduler status
func (h *Handlers) GetSchedulerStatus(c *gin.Context) {
	status := "stopped"
	if h.scheduler.IsRunning() {
		status = "running"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"next_run": h.scheduler.GetNextRun(),
		"last_run": h.scheduler.GetLastRun(),
	})
}
