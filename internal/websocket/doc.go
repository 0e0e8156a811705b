// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package websocket streams verdicts to connected dashboard clients.

The Hub is a pipeline log sink: every LogRecord appended to it is broadcast
as a "verdict" message. Clients are read-only consumers; the only message
they may send is a ping, answered with a pong.

	┌──────────┐  Append(record)  ┌─────────┐
	│ Pipeline │ ───────────────► │   Hub   │ ── verdict ──► clients
	└──────────┘                  └─────────┘

Append encodes each record once and queues the frame. The hub's run loop
is the only goroutine touching the client set; it copies the frame into each
client's send buffer and disconnects clients whose buffer is full. Append
itself never blocks, so a stalled dashboard cannot slow the pipeline.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	r.Get("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, w, r)
	})

Message format:

	{"type": "verdict", "data": {"src_ip": "10.0.0.9", "prediction": "DoS", "is_blocked": true, ...}}
*/
package websocket
