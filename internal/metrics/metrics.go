package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	Registry *prometheus.Registry

	TasksAdded    prometheus.Counter
	TasksEdited   *prometheus.CounterVec
	TasksToggled  *prometheus.CounterVec
	TasksRemoved  prometheus.Counter
	ExpiryAlerts  prometheus.Counter
	SoundFailures prometheus.Counter
	Rollovers     prometheus.Counter
	SaveErrors    prometheus.Counter

	SaveDuration   prometheus.Histogram
	TaskTextLength prometheus.Histogram

	Pending   prometheus.Gauge
	Completed prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		TasksAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_tasks_added_total",
			Help: "Tasks added",
		}),
		TasksEdited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duetoday_tasks_edited_total",
			Help: "Edit attempts by outcome",
		}, []string{"status"}),
		TasksToggled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duetoday_tasks_toggled_total",
			Help: "Completion toggles by resulting state",
		}, []string{"to"}),
		TasksRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_tasks_removed_total",
			Help: "Tasks removed",
		}),
		ExpiryAlerts: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_expiry_alerts_total",
			Help: "Expiry prompts raised",
		}),
		SoundFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_sound_failures_total",
			Help: "Alert sounds that could not be played",
		}),
		Rollovers: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_rollovers_total",
			Help: "Day rollovers that reset completion",
		}),
		SaveErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "duetoday_save_errors_total",
			Help: "Failed writes of the task list",
		}),

		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "duetoday_save_duration_seconds",
			Help:    "Duration of full task list saves",
			Buckets: prometheus.DefBuckets,
		}),
		TaskTextLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "duetoday_task_text_length_bytes",
			Help:    "Length distribution of task texts",
			Buckets: []float64{10, 25, 50, 100, 250},
		}),

		Pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "duetoday_pending_tasks",
			Help: "Rows in the pending container",
		}),
		Completed: f.NewGauge(prometheus.GaugeOpts{
			Name: "duetoday_completed_tasks",
			Help: "Rows in the completed container",
		}),
	}
}
