package db

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	Conn   *sqlx.DB
	Driver string
}

func NewDBConn(driver, connString string) (DB, error) {
	var system attribute.KeyValue
	switch driver {
	case DriverPostgres:
		system = semconv.DBSystemPostgreSQL
	case DriverSQLite:
		system = semconv.DBSystemSqlite
	default:
		return DB{}, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := otelsql.Open(driver, connString,
		otelsql.WithAttributes(system),
		otelsql.WithDBName("funpass"),
	)
	if err != nil {
		return DB{}, err
	}

	if driver == DriverSQLite {
		// a single writer keeps sqlite from returning SQLITE_BUSY mid-transaction
		conn.SetMaxOpenConns(1)
	}

	return DB{Conn: sqlx.NewDb(conn, driver), Driver: driver}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

func (db *DB) writeIsolation() sql.IsolationLevel {
	if db.Driver == DriverPostgres {
		return sql.LevelSerializable
	}
	return sql.LevelDefault
}
