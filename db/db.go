package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
)

// Open opens an instrumented Postgres handle.
func Open(dsn string) (*sqlx.DB, error) {
	sqlDB, err := otelsql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	return sqlx.NewDb(sqlDB, "postgres"), nil
}

var schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id       TEXT PRIMARY KEY,
	organizer_id   TEXT NOT NULL,
	organizer_name TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	starts_at      TIMESTAMPTZ NOT NULL,
	venue_name     TEXT NOT NULL DEFAULT '',
	venue_location TEXT NOT NULL DEFAULT '',
	venue_capacity INT NOT NULL DEFAULT 0,
	vip_price      NUMERIC(10, 2) NOT NULL DEFAULT 0,
	common_price   NUMERIC(10, 2) NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tickets (
	ticket_id    UUID PRIMARY KEY,
	event_id     TEXT NOT NULL REFERENCES events (event_id),
	user_id      TEXT NOT NULL,
	user_email   TEXT NOT NULL,
	user_name    TEXT NOT NULL DEFAULT '',
	ticket_type  TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'issued',
	qr_code      BYTEA NOT NULL,
	purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	validated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS pending_purchases (
	transaction_ref TEXT PRIMARY KEY,
	order_ref       TEXT NOT NULL,
	event_id        TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	user_email      TEXT NOT NULL,
	user_name       TEXT NOT NULL DEFAULT '',
	ticket_type     TEXT NOT NULL,
	quantity        INT NOT NULL,
	amount_minor    BIGINT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'pending',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS interests (
	user_id    TEXT NOT NULL,
	event_id   TEXT NOT NULL REFERENCES events (event_id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, event_id)
);

CREATE TABLE IF NOT EXISTS ratings (
	user_id    TEXT NOT NULL,
	event_id   TEXT NOT NULL REFERENCES events (event_id),
	value      INT NOT NULL CHECK (value BETWEEN 1 AND 5),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, event_id)
);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}
	return nil
}
