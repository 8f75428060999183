package main

import "go.uber.org/zap"

// newZapLogger mirrors phanngoc-security-scanner's cmd/root.go
// initLogger: development logger (human-readable, debug level) when
// debug mode is on, production logger (JSON, info level) otherwise.
func newZapLogger(debugMode bool) (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
