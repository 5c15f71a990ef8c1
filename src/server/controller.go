package server

import (
	"github.com/sbtc-bridge/registry/src/registry"
	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/config"
	"github.com/sbtc-bridge/registry/src/utils/model"
	"github.com/sbtc-bridge/registry/src/utils/monitor"
	"github.com/sbtc-bridge/registry/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the registry service.
// Wires the store, the registry and the REST server together.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	monitor := monitor.NewMonitor().
		WithMaxHistorySize(30)

	var depositStore store.Store
	if config.IsDevelopment && config.Database.Host == "" {
		// In-memory store for local development without Postgres
		depositStore = store.NewMemory()
	} else {
		db, err := model.NewConnection(self.Ctx, config, "registry")
		if err != nil {
			return nil, err
		}
		depositStore = store.NewPostgres(db)
	}

	registry := registry.NewRegistry(config).
		WithStore(depositStore).
		WithMonitor(monitor)

	server := NewServer(config).
		WithRegistry(registry).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(registry.Task).
		WithSubtask(server.Task)

	return
}
