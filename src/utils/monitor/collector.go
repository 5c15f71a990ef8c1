package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Exposes monitor counters as prometheus metrics
type Collector struct {
	monitor *Monitor

	StartTimestamp          *prometheus.Desc
	UpForSeconds            *prometheus.Desc
	DepositsCreated         *prometheus.Desc
	SidecarUpdatesApplied   *prometheus.Desc
	SignerUpdatesApplied    *prometheus.Desc
	ListQueriesServed       *prometheus.Desc
	AverageUpdatesPerMinute *prometheus.Desc
	CreateConflicts         *prometheus.Desc
	VersionConflicts        *prometheus.Desc
	InvalidTransitions      *prometheus.Desc
	ForbiddenUpdates        *prometheus.Desc
	InvalidCursors          *prometheus.Desc
	DbErrors                *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		StartTimestamp:          prometheus.NewDesc("start_timestamp", "", nil, nil),
		UpForSeconds:            prometheus.NewDesc("up_for_seconds", "", nil, nil),
		DepositsCreated:         prometheus.NewDesc("deposits_created", "", nil, nil),
		SidecarUpdatesApplied:   prometheus.NewDesc("sidecar_updates_applied", "", nil, nil),
		SignerUpdatesApplied:    prometheus.NewDesc("signer_updates_applied", "", nil, nil),
		ListQueriesServed:       prometheus.NewDesc("list_queries_served", "", nil, nil),
		AverageUpdatesPerMinute: prometheus.NewDesc("average_updates_per_minute", "", nil, nil),
		CreateConflicts:         prometheus.NewDesc("create_conflicts", "", nil, nil),
		VersionConflicts:        prometheus.NewDesc("version_conflicts", "", nil, nil),
		InvalidTransitions:      prometheus.NewDesc("invalid_transitions", "", nil, nil),
		ForbiddenUpdates:        prometheus.NewDesc("forbidden_updates", "", nil, nil),
		InvalidCursors:          prometheus.NewDesc("invalid_cursors", "", nil, nil),
		DbErrors:                prometheus.NewDesc("db_errors", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds
	ch <- self.DepositsCreated
	ch <- self.SidecarUpdatesApplied
	ch <- self.SignerUpdatesApplied
	ch <- self.ListQueriesServed
	ch <- self.AverageUpdatesPerMinute
	ch <- self.CreateConflicts
	ch <- self.VersionConflicts
	ch <- self.InvalidTransitions
	ch <- self.ForbiddenUpdates
	ch <- self.InvalidCursors
	ch <- self.DbErrors
}

func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	self.monitor.Report.Fill()

	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(self.monitor.Report.Run.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.UpForSeconds.Load()))
	ch <- prometheus.MustNewConstMetric(self.DepositsCreated, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.DepositsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.SidecarUpdatesApplied, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.SidecarUpdatesApplied.Load()))
	ch <- prometheus.MustNewConstMetric(self.SignerUpdatesApplied, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.SignerUpdatesApplied.Load()))
	ch <- prometheus.MustNewConstMetric(self.ListQueriesServed, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.ListQueriesServed.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageUpdatesPerMinute, prometheus.GaugeValue, self.monitor.Report.Registry.State.AverageUpdatesPerMinute.Load())
	ch <- prometheus.MustNewConstMetric(self.CreateConflicts, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.CreateConflicts.Load()))
	ch <- prometheus.MustNewConstMetric(self.VersionConflicts, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.VersionConflicts.Load()))
	ch <- prometheus.MustNewConstMetric(self.InvalidTransitions, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.InvalidTransitions.Load()))
	ch <- prometheus.MustNewConstMetric(self.ForbiddenUpdates, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.ForbiddenUpdates.Load()))
	ch <- prometheus.MustNewConstMetric(self.InvalidCursors, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.InvalidCursors.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbErrors, prometheus.CounterValue, float64(self.monitor.Report.Registry.Errors.DbErrors.Load()))
}
