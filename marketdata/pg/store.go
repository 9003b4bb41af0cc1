// Package pg loads zero-curve nodes and instrument cashflows from Postgres.
//
// Expected schema:
//
//	zero_curve_nodes(curve_name text, curve_date date, time_yf float8, zero_rate float8)
//	bond_cashflows(isin text, pay_date date, coupon_cents bigint, principal_cents bigint)
//
// Rates are continuously compounded decimals; cashflow amounts are integer
// minor units, matching the annuities feed format.
package pg

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/meenmo/zspread/curve"
	"github.com/meenmo/zspread/instruments/annuities"
)

// Store reads market data from a Postgres connection.
type Store struct {
	db *sql.DB
}

// Open connects with a lib/pq DSN (e.g. "postgres://user:pw@host/db").
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pg.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pg.Open: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection (e.g. for tests).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ZeroCurve loads the named curve as of curveDate.
func (s *Store) ZeroCurve(name string, curveDate time.Time) (*curve.Curve, error) {
	rows, err := s.db.Query(
		`SELECT time_yf, zero_rate
		   FROM zero_curve_nodes
		  WHERE curve_name = $1 AND curve_date = $2
		  ORDER BY time_yf`,
		name, curveDate,
	)
	if err != nil {
		return nil, fmt.Errorf("ZeroCurve %q: %w", name, err)
	}
	defer rows.Close()

	var nodes []curve.Node
	for rows.Next() {
		var n curve.Node
		if err := rows.Scan(&n.Time, &n.Zero); err != nil {
			return nil, fmt.Errorf("ZeroCurve %q: scan: %w", name, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ZeroCurve %q: %w", name, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("ZeroCurve %q: no nodes as of %s", name, curveDate.Format("2006-01-02"))
	}

	c, err := curve.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("ZeroCurve %q: %w", name, err)
	}
	return c, nil
}

// Cashflows loads the remaining cashflow rows for an instrument in pay-date
// order.
func (s *Store) Cashflows(isin string) ([]annuities.CashflowCents, error) {
	rows, err := s.db.Query(
		`SELECT pay_date, coupon_cents, principal_cents
		   FROM bond_cashflows
		  WHERE isin = $1
		  ORDER BY pay_date`,
		isin,
	)
	if err != nil {
		return nil, fmt.Errorf("Cashflows %q: %w", isin, err)
	}
	defer rows.Close()

	var out []annuities.CashflowCents
	for rows.Next() {
		var cf annuities.CashflowCents
		if err := rows.Scan(&cf.Date, &cf.CouponCents, &cf.PrincipalCents); err != nil {
			return nil, fmt.Errorf("Cashflows %q: scan: %w", isin, err)
		}
		out = append(out, cf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Cashflows %q: %w", isin, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("Cashflows %q: no rows", isin)
	}
	return out, nil
}
