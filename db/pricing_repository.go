package db

import (
	"context"
	"fmt"
	"sort"

	"funpass/entities"

	"github.com/jmoiron/sqlx"
)

// PricingRepository is the durable source of truth for pass prices. It
// never notifies anyone about changes; callers decide that after a
// successful write.
type PricingRepository struct {
	db *DB
}

func NewPricingRepository(db *DB) PricingRepository {
	if db == nil {
		panic("db is nil")
	}
	return PricingRepository{
		db: db,
	}
}

func (r PricingRepository) GetAll(ctx context.Context) ([]entities.PriceEntry, error) {
	var entries []entities.PriceEntry
	err := r.db.Conn.SelectContext(ctx, &entries, `
		SELECT
		    pass_type,
		    price
		FROM
		    pricing
		ORDER BY
		    position, pass_type
	`)
	if err != nil {
		return nil, entities.StorageError{Op: "get prices", Err: err}
	}

	return entries, nil
}

// SetMany replaces the price of every pass type in prices in a single
// transaction. A pass type that does not exist, or a price above
// entities.MaxPrice, fails the whole batch.
func (r PricingRepository) SetMany(ctx context.Context, prices map[entities.PassType]entities.Price) error {
	passTypes := make([]entities.PassType, 0, len(prices))
	for passType := range prices {
		passTypes = append(passTypes, passType)
	}
	sort.Slice(passTypes, func(i, j int) bool { return passTypes[i] < passTypes[j] })

	err := updateInTx(ctx, r.db.Conn, r.db.writeIsolation(), func(ctx context.Context, tx *sqlx.Tx) error {
		for _, passType := range passTypes {
			if prices[passType].Exceeds(entities.MaxPrice) {
				return fmt.Errorf("%w: %s costs %s", entities.ErrPriceTooLarge, passType, prices[passType])
			}

			res, err := tx.ExecContext(ctx, tx.Rebind(`
				UPDATE
				    pricing
				SET
				    price = ?
				WHERE
				    pass_type = ?`,
			), prices[passType], passType.String())
			if err != nil {
				return fmt.Errorf("could not update price for %s: %w", passType, classifyError(err))
			}

			updated, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("could not check update of %s: %w", passType, err)
			}
			if updated != 1 {
				return fmt.Errorf("%w: %s", entities.ErrUnknownPassType, passType)
			}
		}
		return nil
	})
	if err != nil {
		return entities.StorageError{Op: "set prices", Err: err}
	}

	return nil
}

// ResetToDefaults rewrites all canonical pass types to the factory price
// table, recreating rows that have gone missing.
func (r PricingRepository) ResetToDefaults(ctx context.Context) error {
	err := updateInTx(ctx, r.db.Conn, r.db.writeIsolation(), func(ctx context.Context, tx *sqlx.Tx) error {
		for position, entry := range entities.DefaultPrices() {
			_, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO
				    pricing (pass_type, price, position)
				VALUES
				    (?, ?, ?)
				ON CONFLICT (pass_type) DO UPDATE SET price = excluded.price`,
			), entry.PassType.String(), entry.Price, position)
			if err != nil {
				return fmt.Errorf("could not reset price for %s: %w", entry.PassType, classifyError(err))
			}
		}
		return nil
	})
	if err != nil {
		return entities.StorageError{Op: "reset prices", Err: err}
	}

	return nil
}
