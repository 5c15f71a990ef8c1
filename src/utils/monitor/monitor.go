package monitor

import (
	"math"
	"net/http"
	"time"

	"github.com/sbtc-bridge/registry/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report Report

	historySize int

	// Applied update counts, sampled once per minute
	updateCounts *deque.Deque[uint64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.historySize = 30
	self.updateCounts = deque.New[uint64](self.historySize)

	self.Report.Run.StartTimestamp.Store(time.Now().Unix())

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorUpdates)
	return
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	return self
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Measure update throughput
func (self *Monitor) monitorUpdates() (err error) {
	loaded := self.Report.Registry.State.SidecarUpdatesApplied.Load() +
		self.Report.Registry.State.SignerUpdatesApplied.Load()
	if loaded == 0 {
		// Neglect the first 0
		return
	}

	self.updateCounts.PushBack(loaded)
	if self.updateCounts.Len() > self.historySize {
		self.updateCounts.PopFront()
	}
	value := float64(self.updateCounts.Back()-self.updateCounts.Front()) / float64(self.updateCounts.Len())
	self.Report.Registry.State.AverageUpdatesPerMinute.Store(round(value))
	return
}

func (self *Monitor) OnGet(c *gin.Context) {
	self.Report.Fill()
	c.JSON(http.StatusOK, &self.Report)
}
