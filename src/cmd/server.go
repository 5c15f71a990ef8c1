package cmd

import (
	"github.com/sbtc-bridge/registry/src/server"
	"github.com/sbtc-bridge/registry/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the deposit registry REST API",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := server.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished server command")
		return
	},
}
