// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/features"
	"github.com/tomtom215/rqaguard/internal/models"
)

// PacketEvent is one IP packet as published by an edge sensor.
//
// TCPFlags uses single-letter flag notation, e.g. "S", "SA", "FA", "R".
type PacketEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Src       string    `json:"src"`
	Dst       string    `json:"dst"`
	Protocol  string    `json:"protocol"`
	SrcPort   int       `json:"src_port"`
	DstPort   int       `json:"dst_port"`
	TCPFlags  string    `json:"tcp_flags"`
	Length    int       `json:"length"`
}

// DecodePacket parses a JSON packet event and maps it to an observation.
func DecodePacket(data []byte) (models.Observation, error) {
	var ev PacketEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return models.Observation{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return ObservationFromPacket(ev)
}

// ObservationFromPacket maps a packet event to an observation.
func ObservationFromPacket(ev PacketEvent) (models.Observation, error) {
	src := strings.TrimSpace(ev.Src)
	dst := strings.TrimSpace(ev.Dst)
	if src == "" || dst == "" {
		return models.Observation{}, fmt.Errorf("%w: missing address", ErrMalformedEvent)
	}
	if ev.Length < 0 {
		return models.Observation{}, fmt.Errorf("%w: negative length %d", ErrMalformedEvent, ev.Length)
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	protocol, service, flag := classifyPacket(ev)
	obs := models.Observation{
		ID:         uuid.NewString(),
		Timestamp:  ts.UTC(),
		SourceAddr: src,
		DestAddr:   dst,
		Protocol:   protocol,
		Service:    service,
		Flag:       flag,
		Bytes:      float64(ev.Length),
	}
	if service == "http" || service == "ssh" {
		obs.Features = map[string]float64{features.FieldLoggedIn: 1}
	}
	return obs, nil
}

func classifyPacket(ev PacketEvent) (protocol, service, flag string) {
	flag = "SF"
	switch strings.ToLower(ev.Protocol) {
	case models.ProtocolTCP:
		protocol = models.ProtocolTCP
		switch {
		case ev.DstPort == 80 || ev.SrcPort == 80:
			service = "http"
		case ev.DstPort == 443 || ev.SrcPort == 443:
			service = "http_ssl"
		case ev.DstPort == 22:
			service = "ssh"
		case ev.DstPort == 21:
			service = "ftp"
		case ev.DstPort == 25:
			service = "smtp"
		default:
			service = "private"
		}
		flags := strings.ToUpper(ev.TCPFlags)
		switch {
		case strings.Contains(flags, "S") && !strings.Contains(flags, "F"):
			flag = "S0"
		case strings.Contains(flags, "R"):
			flag = "REJ"
		}
	case models.ProtocolUDP:
		protocol = models.ProtocolUDP
		service = "private"
		if ev.DstPort == 53 {
			service = "domain_u"
		}
	case models.ProtocolICMP:
		protocol = models.ProtocolICMP
		service = "ecr_i"
	default:
		protocol = models.ProtocolOther
		service = "other"
	}
	return protocol, service, flag
}
