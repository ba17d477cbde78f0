package db

import (
	"context"
	"fmt"

	"funpass/entities"

	"github.com/jmoiron/sqlx"
)

var schema = `
CREATE TABLE IF NOT EXISTS pricing (
	pass_type VARCHAR(64) PRIMARY KEY,
	price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
	position INTEGER NOT NULL
);
`

// MigrateSchema creates the pricing table and inserts any canonical pass
// type that is missing. Prices already stored are left alone.
func (db *DB) MigrateSchema(ctx context.Context) error {
	if _, err := db.Conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("could not create pricing table: %w", err)
	}

	return updateInTx(ctx, db.Conn, db.writeIsolation(), func(ctx context.Context, tx *sqlx.Tx) error {
		for position, entry := range entities.DefaultPrices() {
			_, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO
				    pricing (pass_type, price, position)
				VALUES
				    (?, ?, ?)
				ON CONFLICT (pass_type) DO NOTHING`,
			), entry.PassType.String(), entry.Price, position)
			if err != nil {
				return fmt.Errorf("could not seed price for %s: %w", entry.PassType, err)
			}
		}
		return nil
	})
}
