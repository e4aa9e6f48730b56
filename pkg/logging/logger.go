// Package logging provides logger construction and helpers for keeping
// sensitive connection data out of log output.
package logging

import (
	"go.uber.org/zap"
)

// New builds the root logger for the service. Local environments get a
// human-readable development logger; everything else logs JSON.
func New(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
