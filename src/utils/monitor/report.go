package monitor

import (
	"time"

	"go.uber.org/atomic"
)

type RegistryState struct {
	DepositsCreated         atomic.Uint64  `json:"deposits_created"`
	SidecarUpdatesApplied   atomic.Uint64  `json:"sidecar_updates_applied"`
	SignerUpdatesApplied    atomic.Uint64  `json:"signer_updates_applied"`
	ListQueriesServed       atomic.Uint64  `json:"list_queries_served"`
	AverageUpdatesPerMinute atomic.Float64 `json:"average_updates_per_minute"`
}

type RegistryErrors struct {
	CreateConflicts    atomic.Uint64 `json:"create_conflicts"`
	VersionConflicts   atomic.Uint64 `json:"version_conflicts"`
	InvalidTransitions atomic.Uint64 `json:"invalid_transitions"`
	ForbiddenUpdates   atomic.Uint64 `json:"forbidden_updates"`
	InvalidCursors     atomic.Uint64 `json:"invalid_cursors"`
	DbErrors           atomic.Uint64 `json:"db_errors"`
}

type RegistryReport struct {
	State  RegistryState  `json:"state"`
	Errors RegistryErrors `json:"errors"`
}

type RunReport struct {
	StartTimestamp atomic.Int64 `json:"start_timestamp"`
	UpForSeconds   atomic.Int64 `json:"up_for_seconds"`
}

type Report struct {
	Run      RunReport      `json:"run"`
	Registry RegistryReport `json:"registry"`
}

func (self *Report) Fill() {
	self.Run.UpForSeconds.Store(time.Now().Unix() - self.Run.StartTimestamp.Load())
}
