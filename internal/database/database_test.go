// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/models"
)

// setupTestDB opens an in-memory DuckDB database with the schema in place.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		Driver:    config.DriverDuckDB,
		MaxMemory: "256MB",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRecord(id string, offset time.Duration, label string, malicious, simulated bool) models.LogRecord {
	threat := "Low"
	if malicious {
		threat = "High"
	}
	return models.LogRecord{
		ID:                  id,
		Timestamp:           baseTime.Add(offset),
		SourceAddr:          "10.0.0." + id,
		DestAddr:            "192.168.1.1",
		Protocol:            "tcp",
		Service:             "http",
		Bytes:               512,
		Label:               label,
		Malicious:           malicious,
		Confidence:          0.9,
		ThreatLevel:         threat,
		Rule:                "classifier_agree",
		PrimaryLabel:        label,
		PrimaryConfidence:   0.9,
		SecondaryLabel:      label,
		SecondaryConfidence: 0.9,
		RR:                  12.5,
		DET:                 40.1,
		Blocked:             malicious,
		Simulated:           simulated,
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "sqlite"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("New() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestNew_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rqaguard.duckdb")
	db, err := New(&config.DatabaseConfig{Driver: config.DriverDuckDB, Path: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer db.Close()

	if db.Driver() != config.DriverDuckDB {
		t.Errorf("Driver() = %q", db.Driver())
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	// Schema creation is idempotent.
	if err := db.InitSchema(context.Background()); err != nil {
		t.Errorf("InitSchema() second call error = %v", err)
	}
}

func TestDuckDBConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"in-memory bare", config.DatabaseConfig{}, ""},
		{"file bare", config.DatabaseConfig{Path: "/data/x.duckdb"}, "/data/x.duckdb"},
		{"tuned", config.DatabaseConfig{Path: "/data/x.duckdb", MaxMemory: "1GB", Threads: 4}, "/data/x.duckdb?max_memory=1GB&threads=4"},
		{"in-memory tuned", config.DatabaseConfig{MaxMemory: "512MB"}, "?max_memory=512MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duckDBConnString(&tt.cfg); got != tt.want {
				t.Errorf("duckDBConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendAndRecentLogs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	records := []models.LogRecord{
		testRecord("1", 0, "Normal", false, false),
		testRecord("2", time.Second, "DoS", true, false),
		testRecord("3", 2*time.Second, "Probe", true, true),
	}
	for _, rec := range records {
		if err := db.Append(ctx, rec); err != nil {
			t.Fatalf("Append(%s) error = %v", rec.ID, err)
		}
	}

	got, err := db.RecentLogs(ctx, LogFilter{})
	if err != nil {
		t.Fatalf("RecentLogs() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("RecentLogs() returned %d rows, want 3", len(got))
	}
	wantOrder := []string{"3", "2", "1"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("row %d ID = %s, want %s", i, got[i].ID, id)
		}
	}

	first := got[1]
	if first.Label != "DoS" || !first.Malicious || !first.Blocked || first.Simulated {
		t.Errorf("round-tripped record = %+v", first)
	}
	if !first.Timestamp.Equal(baseTime.Add(time.Second)) {
		t.Errorf("Timestamp = %v, want %v", first.Timestamp, baseTime.Add(time.Second))
	}
	if first.RR != 12.5 || first.DET != 40.1 || first.Rule != "classifier_agree" {
		t.Errorf("metrics/rule not preserved: %+v", first)
	}
}

func TestRecentLogs_Filters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, rec := range []models.LogRecord{
		testRecord("1", 0, "Normal", false, false),
		testRecord("2", time.Second, "DoS", true, false),
		testRecord("3", 2*time.Second, "Probe", true, true),
		testRecord("4", 3*time.Second, "Normal", false, true),
	} {
		if err := db.Append(ctx, rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"limit", LogFilter{Limit: 2}, []string{"4", "3"}},
		{"malicious only", LogFilter{MaliciousOnly: true}, []string{"3", "2"}},
		{"captured", LogFilter{Source: models.SourceCaptured}, []string{"2", "1"}},
		{"simulated malicious", LogFilter{Source: models.SourceSimulated, MaliciousOnly: true}, []string{"3"}},
		{"since", LogFilter{Since: baseTime.Add(2 * time.Second)}, []string{"4", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.RecentLogs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("RecentLogs() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("RecentLogs() returned %d rows, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("row %d ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestAppend_FillsIDAndTimestamp(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rec := testRecord("", 0, "Normal", false, false)
	rec.Timestamp = time.Time{}
	if err := db.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := db.RecentLogs(ctx, LogFilter{Limit: 1})
	if err != nil || len(got) != 1 {
		t.Fatalf("RecentLogs() = %v, %v", got, err)
	}
	if got[0].ID == "" {
		t.Error("ID was not generated")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Timestamp was not set")
	}
}

func TestAppend_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rec := testRecord("dup", 0, "Normal", false, false)
	if err := db.Append(ctx, rec); err != nil {
		t.Fatalf("first Append() error = %v", err)
	}
	if err := db.Append(ctx, rec); err == nil {
		t.Error("second Append() with the same ID should fail")
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	empty, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() on empty table error = %v", err)
	}
	if empty.Total != 0 || empty.DetectionRate != 0 || len(empty.ThreatDistribution) != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	degraded := testRecord("5", 4*time.Second, "Unknown", false, false)
	degraded.Degraded = true
	degraded.Rule = "structural_only"
	for _, rec := range []models.LogRecord{
		testRecord("1", 0, "Normal", false, false),
		testRecord("2", time.Second, "DoS", true, false),
		testRecord("3", 2*time.Second, "DoS", true, true),
		testRecord("4", 3*time.Second, "Normal", false, true),
		degraded,
	} {
		if err := db.Append(ctx, rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	s, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.Total != 5 || s.Captured != 3 || s.Simulated != 2 {
		t.Errorf("totals = %d/%d/%d, want 5/3/2", s.Total, s.Captured, s.Simulated)
	}
	if s.Malicious != 2 || s.Blocked != 2 || s.Degraded != 1 {
		t.Errorf("malicious/blocked/degraded = %d/%d/%d, want 2/2/1", s.Malicious, s.Blocked, s.Degraded)
	}
	if s.DetectionRate != 40 {
		t.Errorf("DetectionRate = %v, want 40", s.DetectionRate)
	}
	if s.ThreatDistribution["High"] != 2 || s.ThreatDistribution["Low"] != 3 {
		t.Errorf("ThreatDistribution = %v", s.ThreatDistribution)
	}
	if s.LabelDistribution["DoS"] != 2 || s.LabelDistribution["Normal"] != 2 || s.LabelDistribution["Unknown"] != 1 {
		t.Errorf("LabelDistribution = %v", s.LabelDistribution)
	}
}
