// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package supervisor runs the long-lived RQAGuard components under a suture v4
supervisor tree.

The tree has three layers so a crash in one does not restart the others:

	RootSupervisor ("rqaguard")
	├── CaptureSupervisor ("capture-layer")
	│   ├── packet feed (NATS producer into the capture queue)
	│   └── embedded NATS server (when nats.embedded_server is set)
	├── DetectionSupervisor ("detection-layer")
	│   ├── pipeline consumer
	│   └── websocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server

Suture events (starts, failures, backoff) are logged through sutureslog on
top of the zerolog-backed slog logger from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	tree.AddCaptureService(feed)
	tree.AddDetectionService(services.NewRunnerService("pipeline-consumer", consumer))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

Serve returns when ctx is canceled. Services that fail to stop within
ShutdownTimeout are reported by UnstoppedServiceReport.
*/
package supervisor
