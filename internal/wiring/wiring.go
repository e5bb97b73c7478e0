// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ancestry/internal/adapters/cas"
	_ "go.trai.ch/ancestry/internal/adapters/config"
	_ "go.trai.ch/ancestry/internal/adapters/cyclonedx"
	_ "go.trai.ch/ancestry/internal/adapters/linear"
	_ "go.trai.ch/ancestry/internal/adapters/logger"
	_ "go.trai.ch/ancestry/internal/adapters/provenance"
	_ "go.trai.ch/ancestry/internal/adapters/spdx"
	_ "go.trai.ch/ancestry/internal/adapters/stats"
	_ "go.trai.ch/ancestry/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/ancestry/internal/app"
)
