package common

import (
	"context"

	"github.com/sbtc-bridge/registry/src/utils/config"
)

type contextKey int

const (
	configContextKey contextKey = iota
)

func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configContextKey, config)
}

func GetConfig(ctx context.Context) *config.Config {
	config, ok := ctx.Value(configContextKey).(*config.Config)
	if !ok {
		return nil
	}
	return config
}
