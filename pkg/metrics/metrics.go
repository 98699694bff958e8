package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics concentra os contadores Prometheus do serviço
type Metrics struct {
	JobsTotal   *prometheus.CounterVec
	JobDuration *prometheus.HistogramVec

	NotificationsTotal *prometheus.CounterVec
	QueueDepth         prometheus.Gauge

	SyncCampaignsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registra as métricas no registrador informado
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_jobs_total",
				Help: "Total de execuções de jobs do agendador",
			},
			[]string{"kind", "status"},
		),

		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_job_duration_seconds",
				Help:    "Duração das execuções de jobs em segundos",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"kind"},
		),

		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total de notificações por resultado",
			},
			[]string{"status"},
		),

		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "notification_queue_depth",
				Help: "Quantidade de notificações aguardando na fila",
			},
		),

		SyncCampaignsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_sync_total",
				Help: "Total de sincronizações de campanhas por resultado",
			},
			[]string{"status"},
		),
	}
}

// ObserveJob registra o resultado e a duração de uma execução de job
func (m *Metrics) ObserveJob(kind, status string, started time.Time) {
	m.JobsTotal.WithLabelValues(kind, status).Inc()
	m.JobDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}
