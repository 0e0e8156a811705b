// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/rqaguard/internal/features"
	"github.com/tomtom215/rqaguard/internal/models"
)

func TestObservationFromPacketMapping(t *testing.T) {
	tests := []struct {
		name     string
		ev       PacketEvent
		protocol string
		service  string
		flag     string
	}{
		{"http by dst", PacketEvent{Protocol: "tcp", DstPort: 80, TCPFlags: "PA"}, "tcp", "http", "SF"},
		{"http by src", PacketEvent{Protocol: "tcp", SrcPort: 80, DstPort: 51000, TCPFlags: "A"}, "tcp", "http", "SF"},
		{"https", PacketEvent{Protocol: "TCP", DstPort: 443, TCPFlags: "S"}, "tcp", "http_ssl", "S0"},
		{"ssh", PacketEvent{Protocol: "tcp", DstPort: 22, TCPFlags: "R"}, "tcp", "ssh", "REJ"},
		{"ssh source port only", PacketEvent{Protocol: "tcp", SrcPort: 22, DstPort: 40000}, "tcp", "private", "SF"},
		{"ftp", PacketEvent{Protocol: "tcp", DstPort: 21, TCPFlags: "FA"}, "tcp", "ftp", "SF"},
		{"smtp", PacketEvent{Protocol: "tcp", DstPort: 25, TCPFlags: "SF"}, "tcp", "smtp", "SF"},
		{"syn rst", PacketEvent{Protocol: "tcp", DstPort: 8080, TCPFlags: "SR"}, "tcp", "private", "S0"},
		{"dns", PacketEvent{Protocol: "udp", DstPort: 53}, "udp", "domain_u", "SF"},
		{"udp other", PacketEvent{Protocol: "udp", DstPort: 123}, "udp", "private", "SF"},
		{"icmp", PacketEvent{Protocol: "icmp"}, "icmp", "ecr_i", "SF"},
		{"unknown protocol", PacketEvent{Protocol: "gre"}, "other", "other", "SF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ev.Src, tt.ev.Dst, tt.ev.Length = "192.168.1.10", "10.0.0.1", 60
			obs, err := ObservationFromPacket(tt.ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if obs.Protocol != tt.protocol || obs.Service != tt.service || obs.Flag != tt.flag {
				t.Errorf("got (%s, %s, %s), want (%s, %s, %s)",
					obs.Protocol, obs.Service, obs.Flag, tt.protocol, tt.service, tt.flag)
			}
			if obs.Bytes != 60 {
				t.Errorf("Bytes = %v, want 60", obs.Bytes)
			}
			if obs.Simulated {
				t.Error("captured observation marked simulated")
			}
		})
	}
}

func TestObservationFromPacketLoggedIn(t *testing.T) {
	obs, err := ObservationFromPacket(PacketEvent{Src: "a", Dst: "b", Protocol: "tcp", DstPort: 22, Length: 90})
	if err != nil {
		t.Fatal(err)
	}
	if obs.Features[features.FieldLoggedIn] != 1 {
		t.Errorf("logged_in = %v, want 1", obs.Features[features.FieldLoggedIn])
	}
}

func TestObservationFromPacketTimestamp(t *testing.T) {
	ts := time.Date(2026, 5, 4, 3, 2, 1, 0, time.FixedZone("CEST", 2*3600))
	obs, err := ObservationFromPacket(PacketEvent{Timestamp: ts, Src: "a", Dst: "b", Protocol: "icmp"})
	if err != nil {
		t.Fatal(err)
	}
	if !obs.Timestamp.Equal(ts) || obs.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want %v in UTC", obs.Timestamp, ts)
	}
	if obs.ID == "" {
		t.Error("missing observation ID")
	}
}

func TestDecodePacketMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"missing src", `{"dst":"10.0.0.1","protocol":"tcp","length":60}`},
		{"blank dst", `{"src":"10.0.0.1","dst":"  ","protocol":"tcp","length":60}`},
		{"negative length", `{"src":"a","dst":"b","protocol":"udp","length":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePacket([]byte(tt.data)); !errors.Is(err, ErrMalformedEvent) {
				t.Fatalf("err = %v, want ErrMalformedEvent", err)
			}
		})
	}
}

func TestDecodePacket(t *testing.T) {
	data := `{"timestamp":"2026-05-04T03:02:01Z","src":"192.168.0.7","dst":"10.0.3.4",` +
		`"protocol":"tcp","src_port":50123,"dst_port":443,"tcp_flags":"S","length":74}`
	obs, err := DecodePacket([]byte(data))
	if err != nil {
		t.Fatalf("DecodePacket: %v", err)
	}
	want := models.Observation{
		SourceAddr: "192.168.0.7",
		DestAddr:   "10.0.3.4",
		Protocol:   "tcp",
		Service:    "http_ssl",
		Flag:       "S0",
		Bytes:      74,
	}
	if obs.SourceAddr != want.SourceAddr || obs.DestAddr != want.DestAddr ||
		obs.Service != want.Service || obs.Flag != want.Flag || obs.Bytes != want.Bytes {
		t.Errorf("got %+v, want %+v", obs, want)
	}
}
