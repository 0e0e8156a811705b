// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package capture turns packet events into observations and hands them to the
detection pipeline through a bounded queue.

# Architecture

	NATS subject ──▶ NATSProducer ──┐
	                                 ├──▶ Queue ──▶ pipeline.Consumer
	POST /api/v1/observations ──────┘

Producers never block: Queue.Offer drops the oldest queued observation when
the queue is full and counts the drop. The consumer polls without blocking.

# Packet Mapping

Packet events are mapped to connection tags as follows:

	TCP  port 80 (either side)   service http
	TCP  port 443 (either side)  service http_ssl
	TCP  dst 22 / 21 / 25        service ssh / ftp / smtp
	TCP  otherwise               service private
	UDP  dst 53                  service domain_u, otherwise private
	ICMP                         service ecr_i
	TCP  SYN without FIN         flag S0
	TCP  RST                     flag REJ
	otherwise                    flag SF

# Lifecycle

Feed runs one producer in its own goroutine. Stop cancels it and waits a
bounded time; observations still queued at shutdown are dropped.
*/
package capture
