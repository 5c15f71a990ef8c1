package server

import (
	"context"
	"net/http"

	"github.com/sbtc-bridge/registry/src/registry"
	"github.com/sbtc-bridge/registry/src/utils/config"
	"github.com/sbtc-bridge/registry/src/utils/monitor"
	"github.com/sbtc-bridge/registry/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rest API server, exposes the deposit registry operations
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	registry *registry.Registry
	monitor  *monitor.Monitor
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.Router = gin.New()
	self.Router.Use(gin.Recovery())
	self.Router.Use(self.handleRequestId)
	self.Router.Use(self.handleTimeout)

	self.httpServer = &http.Server{
		Addr:    self.Config.Api.ListenAddress,
		Handler: self.Router,
	}

	return
}

func (self *Server) WithRegistry(registry *registry.Registry) *Server {
	self.registry = registry
	return self
}

func (self *Server) WithMonitor(monitor *monitor.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) run() (err error) {
	self.registerRoutes()

	self.Log.WithField("addr", self.Config.Api.ListenAddress).Info("Starting REST server")
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) registerRoutes() {
	v1 := self.Router.Group("v1")
	{
		v1.GET("health", self.monitor.OnGet)
		v1.GET("metrics", self.onMetrics())

		v1.POST("deposit", self.onCreateDeposit)
		v1.GET("deposit/:txid", self.onGetDepositsForTransaction)
		v1.GET("deposit/:txid/:index", self.onGetDeposit)
		v1.GET("deposits", self.onGetDeposits)

		privileged := v1.Group("")
		privileged.Use(self.handleApiKey)
		{
			privileged.PUT("deposit/private", self.onUpdateDepositsSidecar)
			privileged.PUT("deposit/signer", self.onUpdateDepositsSigner)
		}
	}
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

func (self *Server) onMetrics() gin.HandlerFunc {
	registerer := prometheus.NewRegistry()
	registerer.MustRegister(monitor.NewCollector().WithMonitor(self.monitor))
	handler := promhttp.HandlerFor(registerer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
