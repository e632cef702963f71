package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	PollCycles       prometheus.Counter
	PollErrors       prometheus.Counter
	MessagesStored   prometheus.Counter
	MessagesSkipped  prometheus.Counter
	AttachmentsSaved prometheus.Counter
	SendSuccesses    prometheus.Counter
	SendFailures     prometheus.Counter
	ProcessingTime   prometheus.Histogram
}

// New creates new Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PollCycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_poll_cycles_total",
			Help: "Total number of mailbox poll cycles",
		}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_poll_errors_total",
			Help: "Total number of poll cycles aborted by a session or protocol error",
		}),
		MessagesStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_messages_stored_total",
			Help: "Total number of inbound messages stored as mail records",
		}),
		MessagesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_messages_skipped_total",
			Help: "Total number of inbound messages skipped after a processing error",
		}),
		AttachmentsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_attachments_saved_total",
			Help: "Total number of attachments uploaded to object storage",
		}),
		SendSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_send_successes_total",
			Help: "Total number of successful outbound sends",
		}),
		SendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawfirm_crm_send_failures_total",
			Help: "Total number of failed outbound sends",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lawfirm_crm_poll_duration_seconds",
			Help:    "Time spent processing a mailbox poll cycle",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
