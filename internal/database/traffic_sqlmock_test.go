// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewWithConn(conn, config.DriverPostgres), mock
}

func TestAppend_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	rec := testRecord("abc", 0, "DoS", true, false)

	mock.ExpectExec(regexp.QuoteMeta(insertTrafficSQL)).
		WithArgs(
			"abc", baseTime, "10.0.0.abc", "192.168.1.1", "tcp", "http", 512.0,
			"DoS", true, 0.9, "High", "classifier_agree",
			"DoS", 0.9, "DoS", 0.9,
			12.5, 40.1, true, false, false,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := db.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppend_SQLError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta(insertTrafficSQL)).WillReturnError(boom)

	err := db.Append(context.Background(), testRecord("x", 0, "Normal", false, false))
	if !errors.Is(err, boom) {
		t.Fatalf("Append() error = %v, want wrapped %v", err, boom)
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "INSERT" || opErr.Table != trafficTable {
		t.Errorf("Append() error = %#v, want INSERT OpError on %s", err, trafficTable)
	}
	if want := "database: insert traffic_logs: connection reset"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStats_SQL(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(trafficTotalsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "simulated", "malicious", "blocked", "degraded"}).
			AddRow(8, 3, 1, 1, 0))
	mock.ExpectQuery(regexp.QuoteMeta(threatDistributionSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"threat_level", "count"}).
			AddRow("Low", 7).
			AddRow("Critical", 1))
	mock.ExpectQuery(regexp.QuoteMeta(labelDistributionSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).
			AddRow("Normal", 7).
			AddRow("Anomaly(RQA)", 1))

	s, err := db.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.Total != 8 || s.Captured != 5 || s.Simulated != 3 {
		t.Errorf("totals = %+v", s)
	}
	if s.DetectionRate != 12.5 {
		t.Errorf("DetectionRate = %v, want 12.5", s.DetectionRate)
	}
	if s.ThreatDistribution["Critical"] != 1 || s.LabelDistribution["Anomaly(RQA)"] != 1 {
		t.Errorf("distributions = %v / %v", s.ThreatDistribution, s.LabelDistribution)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBuildRecentLogsQuery(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    LogFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{"default", LogFilter{}, "", []interface{}{DefaultRecentLimit}},
		{"capped", LogFilter{Limit: 5000}, "", []interface{}{MaxRecentLimit}},
		{"malicious", LogFilter{Limit: 10, MaliciousOnly: true}, " WHERE malicious", []interface{}{10}},
		{"captured since", LogFilter{Source: models.SourceCaptured, Since: since},
			" WHERE NOT simulated AND ts >= $1", []interface{}{since, DefaultRecentLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildRecentLogsQuery(tt.filter)

			wantPrefix := "SELECT " + trafficColumns + " FROM traffic_logs" + tt.wantWhere + " ORDER BY"
			if !strings.HasPrefix(query, wantPrefix) {
				t.Errorf("query = %q, want prefix %q", query, wantPrefix)
			}
			wantLimit := " LIMIT $" + string(rune('0'+len(tt.wantArgs)))
			if !strings.HasSuffix(query, wantLimit) {
				t.Errorf("query = %q, want suffix %q", query, wantLimit)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestRecentLogs_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	query, _ := buildRecentLogsQuery(LogFilter{Limit: 1})

	cols := strings.Split(trafficColumns, ", ")
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"r1", baseTime, "10.0.0.9", "192.168.1.1", "udp", "domain_u", 80.0,
			"Normal", false, 0.7, "Low", "all_normal",
			"Normal", 0.7, "Normal", 0.7,
			0.0, 0.0, false, true, false,
		))

	got, err := db.RecentLogs(context.Background(), LogFilter{Limit: 1})
	if err != nil {
		t.Fatalf("RecentLogs() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" || got[0].Service != "domain_u" || !got[0].Simulated {
		t.Errorf("RecentLogs() = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
