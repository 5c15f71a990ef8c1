package config

import (
	"time"

	"github.com/spf13/viper"
)

type Registry struct {
	// Page size used when the request doesn't specify one
	DefaultPageSize int

	// Requested page sizes above this value get clamped
	MaxPageSize int

	// Workers processing items of one update batch
	BatchNumWorkers int

	// Max total time spent retrying one update item.
	// Covers both version conflicts and transient store errors.
	UpdateMaxElapsedTime time.Duration

	// Max interval between update retries
	UpdateMaxInterval time.Duration
}

func setRegistryDefaults() {
	viper.SetDefault("Registry.DefaultPageSize", "128")
	viper.SetDefault("Registry.MaxPageSize", "1000")
	viper.SetDefault("Registry.BatchNumWorkers", "8")
	viper.SetDefault("Registry.UpdateMaxElapsedTime", "10s")
	viper.SetDefault("Registry.UpdateMaxInterval", "1s")
}
