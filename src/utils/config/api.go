package config

import (
	"time"

	"github.com/spf13/viper"
)

type Api struct {
	// REST API address
	ListenAddress string

	// Maximum time for handling a single request
	RequestTimeout time.Duration

	// Keys accepted on the privileged update paths.
	// Empty list disables the check (development only).
	UpdateApiKeys []string
}

func setApiDefaults() {
	viper.SetDefault("Api.ListenAddress", "0.0.0.0:3031")
	viper.SetDefault("Api.RequestTimeout", "30s")
	viper.SetDefault("Api.UpdateApiKeys", "")
}
