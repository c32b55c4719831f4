// internal/shipment/store_test.go
//
// Unit-tests for the shipment store using sqlmock.
//
// Run: go test ./internal/shipment -v

package shipment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

func TestStore_Insert(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shipment")).
		WithArgs("ORD-1042", "6A12345678901", "08032", "Jeanne Martin", "FR").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := st.Insert(context.Background(), sampleRequest(),
		&Receipt{ParcelNumber: "6A12345678901"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestStore_Recent(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "order_ref", "parcel_number", "pickup_point_id",
		"recipient_name", "country", "created_at",
	}).
		AddRow(9, "ORD-1043", "6A2", "08032", "A B", "FR", now).
		AddRow(7, "ORD-1042", "6A1", "08032", "C D", "FR", now.Add(-24*time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("FROM shipment")).
		WithArgs(2).
		WillReturnRows(rows)

	got, err := st.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].OrderRef != "ORD-1043" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestStore_ByOrderRef(t *testing.T) {
	st, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "order_ref", "parcel_number", "pickup_point_id",
		"recipient_name", "country", "created_at",
	}).
		AddRow(7, "ORD-1042", "6A1", "08032", "Jeanne Martin", "FR", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE order_ref = ?")).
		WithArgs("ORD-1042").
		WillReturnRows(rows)

	got, err := st.ByOrderRef(context.Background(), "ORD-1042")
	if err != nil {
		t.Fatalf("ByOrderRef: %v", err)
	}
	if len(got) != 1 || got[0].ParcelNumber != "6A1" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
