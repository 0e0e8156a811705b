// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package services

import "context"

// Runner is a component with a blocking, context-aware run loop.
// *pipeline.Consumer, *pipeline.AsyncSink and *websocket.Hub satisfy it.
type Runner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService adapts a Runner to suture.Service under a fixed name.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps runner. name identifies it in supervisor logs.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

func (s *RunnerService) String() string {
	return s.name
}
