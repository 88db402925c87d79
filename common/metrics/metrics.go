package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wsa-2002/pd6-be-sub001/common/constants/priority"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/verdict"
)

const (
	queueLabel    = "queue"
	priorityLabel = "priority"
	verdictLabel  = "verdict"
)

type Collector struct {
	PublishedTasks        *prometheus.CounterVec
	DisabledLanguageSkips prometheus.Counter
	ConsumedReports       *prometheus.CounterVec
	DroppedReports        *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{}

	c.PublishedTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pd6",
			Subsystem: "judge",
			Name:      "published_tasks_count",
			Help:      "Number of judge tasks published to the grading fleet",
		},
		[]string{queueLabel, priorityLabel},
	)
	prometheus.MustRegister(c.PublishedTasks)

	c.DisabledLanguageSkips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pd6",
			Subsystem: "judge",
			Name:      "disabled_language_skips_count",
			Help:      "Number of submissions skipped because their language is disabled",
		},
	)
	prometheus.MustRegister(c.DisabledLanguageSkips)

	c.ConsumedReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pd6",
			Subsystem: "judge",
			Name:      "consumed_reports_count",
			Help:      "Number of grading reports saved as judgments",
		},
		[]string{verdictLabel},
	)
	prometheus.MustRegister(c.ConsumedReports)

	c.DroppedReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pd6",
			Subsystem: "judge",
			Name:      "dropped_reports_count",
			Help:      "Number of grading reports dropped because they could not be processed",
		},
		[]string{queueLabel},
	)
	prometheus.MustRegister(c.DroppedReports)

	return c
}

func (c *Collector) TaskPublished(queueName string, prio priority.Priority) {
	c.PublishedTasks.With(prometheus.Labels{
		queueLabel:    queueName,
		priorityLabel: string(prio),
	}).Inc()
}

func (c *Collector) ReportConsumed(v verdict.Verdict) {
	c.ConsumedReports.With(prometheus.Labels{verdictLabel: string(v)}).Inc()
}

func (c *Collector) ReportDropped(queueName string) {
	c.DroppedReports.With(prometheus.Labels{queueLabel: queueName}).Inc()
}
