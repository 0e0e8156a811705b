// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package blocklist

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRegistry(t *testing.T) (*SQLRegistry, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewSQLRegistry(db)
	r.now = func() time.Time { return ts }
	return r, mock, ts
}

func TestSQLRegistryBlock(t *testing.T) {
	r, mock, ts := newMockRegistry(t)

	mock.ExpectExec(regexp.QuoteMeta(insertBlockedSQL)).
		WithArgs("10.0.0.5", ts, "DoS").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertBlockedSQL)).
		WithArgs("10.0.0.5", ts, "Probe").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := r.Block(context.Background(), " 10.0.0.5 ", "DoS")
	if err != nil || !inserted {
		t.Fatalf("first Block = (%v, %v), want (true, nil)", inserted, err)
	}
	inserted, err = r.Block(context.Background(), "10.0.0.5", "Probe")
	if err != nil || inserted {
		t.Fatalf("second Block = (%v, %v), want (false, nil)", inserted, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLRegistryBlockError(t *testing.T) {
	r, mock, _ := newMockRegistry(t)
	dbErr := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta(insertBlockedSQL)).WillReturnError(dbErr)

	if _, err := r.Block(context.Background(), "10.0.0.5", "DoS"); !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want %v", err, dbErr)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLRegistryIsBlocked(t *testing.T) {
	r, mock, _ := newMockRegistry(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectBlockedSQL)).
		WithArgs("10.0.0.5").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(selectBlockedSQL)).
		WithArgs("10.0.0.6").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	if blocked, err := r.IsBlocked(context.Background(), "10.0.0.5"); err != nil || !blocked {
		t.Errorf("IsBlocked(10.0.0.5) = (%v, %v), want (true, nil)", blocked, err)
	}
	if blocked, err := r.IsBlocked(context.Background(), "10.0.0.6"); err != nil || blocked {
		t.Errorf("IsBlocked(10.0.0.6) = (%v, %v), want (false, nil)", blocked, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLRegistryList(t *testing.T) {
	r, mock, ts := newMockRegistry(t)

	mock.ExpectQuery(regexp.QuoteMeta(listBlockedSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"address", "blocked_at", "reason"}).
			AddRow("10.0.0.1", ts, "DoS").
			AddRow("10.0.0.2", ts.Add(time.Second), "Anomaly(RQA)"))

	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[1].Reason != "Anomaly(RQA)" {
		t.Fatalf("unexpected list %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
