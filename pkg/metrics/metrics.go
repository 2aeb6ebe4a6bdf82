package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "contentreports"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelSource  = "source"
	metricLabelReport  = "report"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each service function
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ServiceRequestDuration observe the duration of requests for each service function
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a service function and marshal its reponses",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ReportRequestCounter count the number of report executions per report
	ReportRequestCounter = newCounterVec(
		"report_request_count",
		"Number of report executions per report id",
		metricLabelReport, metricLabelStatus,
	)
	// ReportDuration observe the duration of report executions per report
	ReportDuration = newSummaryVec(
		"report_duration_seconds",
		"Seconds to execute a report and build its payload",
		metricLabelReport,
	)
	// ReportQueryFailedCounter count the number of absorbed report sub query failures
	ReportQueryFailedCounter = newCounterVec(
		"report_query_failed_count",
		"Number of report sub queries that failed and degraded to zero results",
		metricLabelReport,
	)
	// UpdatesCompletedCounter count the number of rejected updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each successful repo.update() call",
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the content history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the content history",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
