// internal/shipment/store.go
//
// Issued-shipment persistence.
//
// Context
// -------
// Every accepted shipment is recorded so support can answer "which pickup
// point did order X go to" without querying the carrier.  Plain sqlx over
// the shared MySQL pool; the table is small and append-mostly.
//
// Schema
// ------
//
//	CREATE TABLE shipment (
//	  id              BIGINT AUTO_INCREMENT PRIMARY KEY,
//	  order_ref       VARCHAR(64)  NOT NULL,
//	  parcel_number   VARCHAR(32)  NOT NULL,
//	  pickup_point_id VARCHAR(32)  NOT NULL DEFAULT '',
//	  recipient_name  VARCHAR(128) NOT NULL,
//	  country         CHAR(2)      NOT NULL,
//	  created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
package shipment

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Record mirrors one row of the shipment table.
type Record struct {
	ID            int64     `db:"id"`
	OrderRef      string    `db:"order_ref"`
	ParcelNumber  string    `db:"parcel_number"`
	PickupPointID string    `db:"pickup_point_id"`
	RecipientName string    `db:"recipient_name"`
	Country       string    `db:"country"`
	CreatedAt     time.Time `db:"created_at"`
}

// Store wraps the shipment table.
type Store struct {
	db *sqlx.DB
}

// NewStore binds a store to the given pool.
func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// Insert records an accepted shipment and returns the new row ID.
func (s *Store) Insert(ctx context.Context, req *Request, rcpt *Receipt) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	    INSERT INTO shipment
	        (order_ref, parcel_number, pickup_point_id, recipient_name, country)
	    VALUES (?, ?, ?, ?, ?)`,
		req.OrderRef,
		rcpt.ParcelNumber,
		req.Parcel.PickupPointID,
		req.Recipient.Name,
		req.Recipient.Country,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent returns the latest n shipments, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		n = 20
	}
	var out []Record
	err := s.db.SelectContext(ctx, &out, `
	    SELECT id, order_ref, parcel_number, pickup_point_id,
	           recipient_name, country, created_at
	    FROM shipment
	    ORDER BY created_at DESC, id DESC
	    LIMIT ?`, n)
	return out, err
}

// ByOrderRef returns every shipment recorded for one order reference.
func (s *Store) ByOrderRef(ctx context.Context, ref string) ([]Record, error) {
	var out []Record
	err := s.db.SelectContext(ctx, &out, `
	    SELECT id, order_ref, parcel_number, pickup_point_id,
	           recipient_name, country, created_at
	    FROM shipment
	    WHERE order_ref = ?
	    ORDER BY id DESC`, ref)
	return out, err
}
